package pipeline

import (
	"bytes"
	"context"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tether/pkg/cache"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/grid"
	"github.com/matzehuels/tether/pkg/scene"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format error = %v", err)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != "curved" {
		t.Errorf("Style = %q, want curved", opts.Style)
	}
	if opts.Color != "#3b82f6" || opts.StrokeWidth != 2 || opts.Scale != 1 {
		t.Errorf("defaults = %+v", opts)
	}
	if opts.MaxCells != grid.DefaultMaxCells {
		t.Errorf("MaxCells = %d", opts.MaxCells)
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"style", Options{Style: "wavy"}, errors.ErrCodeInvalidStyle},
		{"color", Options{Color: "#12345"}, errors.ErrCodeInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Style: "Orthogonal"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := opts

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Style != "orthogonal" || opts.Style != first.Style || opts.MaxCells != first.MaxCells {
		t.Errorf("options changed on second call: %+v", opts)
	}
}

func testScene() *scene.Scene {
	return &scene.Scene{
		Cards: []scene.Card{
			{ID: "api", X: 0, Y: 80, Width: 100, Height: 40},
			{ID: "wall", X: 200, Y: 40, Width: 60, Height: 120},
			{ID: "db", X: 400, Y: 80, Width: 100, Height: 40},
		},
		Links: []scene.Link{{From: "api", To: "db"}},
	}
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, log.NewWithOptions(io.Discard, log.Options{}))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecute(t *testing.T) {
	r := testRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, testScene(), Options{Formats: []string{FormatSVG, FormatPNG}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}
	if len(res.Connections) != 1 {
		t.Fatalf("got %d connections", len(res.Connections))
	}
	if res.Connections[0].Outcome.Fallback() {
		t.Errorf("outcome = %s, want routed", res.Connections[0].Outcome)
	}
	if res.Stats.Cards != 3 || res.Stats.Links != 1 || res.Stats.Fallbacks != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
	svg := res.Artifacts[FormatSVG]
	if !bytes.Contains(svg, []byte(`class="connection"`)) {
		t.Errorf("svg missing connection:\n%s", svg)
	}
	if png := res.Artifacts[FormatPNG]; !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}

	again, err := r.Execute(ctx, testScene(), Options{Formats: []string{FormatSVG, FormatPNG}})
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !again.CacheInfo.RenderHit {
		t.Error("second run should hit the cache")
	}
	if again.Connections != nil {
		t.Error("cache hit should skip routing")
	}
	if !bytes.Equal(again.Artifacts[FormatSVG], svg) {
		t.Error("cached SVG differs")
	}
}

func TestExecuteRefresh(t *testing.T) {
	r := testRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, testScene(), Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, testScene(), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit || res.Connections == nil {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteOptionsChangeKey(t *testing.T) {
	r := testRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, testScene(), Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, testScene(), Options{Color: "#ff0000"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("different color should miss the cache")
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `stroke="#ff0000"`) {
		t.Error("color default not applied")
	}
}

func TestExecuteInvalidScene(t *testing.T) {
	r := testRunner(t)
	s := testScene()
	s.Links = append(s.Links, scene.Link{From: "api", To: "ghost"})

	_, err := r.Execute(context.Background(), s, Options{})
	if !errors.Is(err, errors.ErrCodeCardNotFound) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeCardNotFound)
	}

	if _, err := r.Execute(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("nil scene error = %v", err)
	}
}

func TestExecuteGridTooLarge(t *testing.T) {
	r := NewRunner(nil, nil, log.NewWithOptions(io.Discard, log.Options{}))
	res, err := r.Execute(context.Background(), testScene(), Options{MaxCells: 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Fallbacks != 1 {
		t.Errorf("Fallbacks = %d, want 1", res.Stats.Fallbacks)
	}
}

func TestExecuteMaxCellsChangesKey(t *testing.T) {
	r := testRunner(t)
	ctx := context.Background()

	capped, err := r.Execute(ctx, testScene(), Options{MaxCells: 10})
	if err != nil {
		t.Fatal(err)
	}
	if capped.Stats.Fallbacks != 1 {
		t.Fatalf("Fallbacks = %d, want 1", capped.Stats.Fallbacks)
	}

	res, err := r.Execute(ctx, testScene(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("default cell limit should not reuse the capped document")
	}
	if res.Stats.Fallbacks != 0 {
		t.Errorf("Fallbacks = %d, want 0", res.Stats.Fallbacks)
	}
}

func TestRoute(t *testing.T) {
	r := testRunner(t)
	ctx := context.Background()
	req := RouteRequest{
		Start:     geometry.Pt(0, 100),
		End:       geometry.Pt(300, 100),
		Obstacles: []geometry.Rect{{Left: 100, Top: 50, Right: 200, Bottom: 150}},
		Style:     "straight",
	}

	resp, hit, err := r.Route(ctx, req)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if hit {
		t.Error("first route should miss the cache")
	}
	if resp.Outcome != "routed" || len(resp.Waypoints) < 3 {
		t.Errorf("resp = %+v", resp)
	}
	if !strings.HasPrefix(resp.Path, "M 0 100 L ") || !strings.HasSuffix(resp.Path, "L 300 100") {
		t.Errorf("Path = %q", resp.Path)
	}

	cached, hit, err := r.Route(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if !hit || cached.Path != resp.Path {
		t.Errorf("second route hit=%v path=%q", hit, cached.Path)
	}
}

func TestRouteInvalid(t *testing.T) {
	r := testRunner(t)
	tests := []struct {
		name string
		req  RouteRequest
		code errors.Code
	}{
		{"nan", RouteRequest{Start: geometry.Pt(math.NaN(), 0)}, errors.ErrCodeInvalidInput},
		{"empty obstacle", RouteRequest{Obstacles: []geometry.Rect{{Left: 5, Right: 5, Bottom: 10}}}, errors.ErrCodeInvalidInput},
		{"style", RouteRequest{Style: "zigzag"}, errors.ErrCodeInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := r.Route(context.Background(), tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
