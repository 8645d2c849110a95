// Package pkg provides the libraries behind tether, a connection router for
// node-based canvases.
//
// # Overview
//
// A canvas holds rectangular cards. Tether draws connections between them
// that steer around every card in the way. The pkg directory is organized
// bottom-up:
//
//  1. [geometry], [obstacle] - points, rectangles and the indexed obstacle snapshot
//  2. [grid], [astar], [smooth] - the routing lattice, the search and path smoothing
//  3. [route], [curve] - one route end to end, and its SVG path data
//  4. [connection] - the registry that keeps routed connections up to date
//  5. [scene], [render], [pipeline] - headless scenes, documents and caching
//
// # Architecture
//
//	cards (BoundsProvider)
//	         ↓
//	    [obstacle] Tracker.Refresh (R-tree snapshot)
//	         ↓
//	    [grid] Build around the two anchors
//	         ↓
//	    [astar] Search, then [smooth] Reduce
//	         ↓
//	    [curve] Render (straight, orthogonal, curved)
//	         ↓
//	    [connection] Handle.PathData / SVG
//
// # Quick Start
//
//	reg := connection.New(obstacle.NewTracker(obstacle.Static(api, db, wall)))
//	h := reg.Create(api, db, connection.Options{Style: curve.Orthogonal})
//	fmt.Println(h.PathData)
//
// Every route has an outcome. When no path exists, or the grid would be too
// large, the connection falls back to a straight line and [route.Outcome]
// says why.
package pkg
