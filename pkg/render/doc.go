// Package render draws a routed scene as a standalone document.
//
// # Formats
//
// [SVG] writes a vector document: every card as a labelled rectangle and
// every connection as a path with an arrowhead marker, using the same path
// data the connection handles carry.
//
// [PNG] rasterizes the same geometry in-process with golang.org/x/image/vector.
// Curves are flattened from their seehuhn.de/go/geom path form and strokes
// are expanded to filled polygons, so no external converter is required.
//
//	reg := connection.New(obstacle.NewTracker(s.Source()))
//	s.Connect(reg)
//	svg := render.SVG(s, reg.Connections(), render.WithPadding(40))
//	png, err := render.PNG(s, reg.Connections(), render.WithScale(2))
//
// Output is deterministic: the same scene and connections always produce
// byte-identical documents.
package render
