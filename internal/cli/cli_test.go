package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/geometry"
	"github.com/matzehuels/tether/pkg/pipeline"
)

// run executes the CLI with args and an isolated config and cache.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		format  string
		formats int
		want    string
	}{
		{"derived", "board.toml", "", "svg", 1, "board.svg"},
		{"explicit single", "board.toml", "out/x.svg", "svg", 1, "out/x.svg"},
		{"base for many", "board.toml", "out/x", "png", 2, "out/x.png"},
		{"base ext replaced", "board.toml", "out/x.svg", "png", 2, "out/x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.input, tt.output, tt.format, tt.formats); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePointAndRect(t *testing.T) {
	p, err := parsePoint(" 10, -2.5")
	if err != nil || p != geometry.Pt(10, -2.5) {
		t.Errorf("parsePoint() = %v, %v", p, err)
	}
	r, err := parseRect("1,2,3,4")
	if err != nil || r != (geometry.Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}) {
		t.Errorf("parseRect() = %v, %v", r, err)
	}

	for _, bad := range []string{"", "1", "1,2,3", "a,b", "1,NaN"} {
		if _, err := parsePoint(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parsePoint(%q) error = %v", bad, err)
		}
	}
}

func TestRouteCommand(t *testing.T) {
	out, err := run(t, "route", "--from", "0,100", "--to", "300,100",
		"--obstacle", "100,50,200,150", "--style", "orthogonal", "--json")
	if err != nil {
		t.Fatalf("route error = %v", err)
	}
	var resp pipeline.RouteResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if resp.Outcome != "routed" || !strings.HasPrefix(resp.Path, "M 0 100 ") {
		t.Errorf("resp = %+v", resp)
	}
}

func TestRouteCommandText(t *testing.T) {
	out, err := run(t, "route", "--from", "0,0", "--to", "100,0", "--style", "straight", "--no-cache")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"routed", "(0,0) (100,0)", "M 0 0 L 100 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRouteCommandErrors(t *testing.T) {
	if _, err := run(t, "route", "--from", "0,0"); err == nil {
		t.Error("missing --to should fail")
	}
	if _, err := run(t, "route", "--from", "0", "--to", "1,1"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad point error = %v", err)
	}
}

const boardTOML = `
[[cards]]
id = "api"
x = 0
y = 80
width = 100
height = 40

[[cards]]
id = "wall"
x = 200
y = 40
width = 60
height = 120

[[cards]]
id = "db"
x = 400
y = 80
width = 100
height = 40

[[links]]
from = "api"
to = "db"
`

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "board.toml")
	if err := os.WriteFile(input, []byte(boardTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "render", input, "-f", "svg,png", "--no-cache"); err != nil {
		t.Fatalf("render error = %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "board.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`data-outcome="routed"`)) {
		t.Errorf("svg = %s", svg)
	}
	if _, err := os.Stat(filepath.Join(dir, "board.png")); err != nil {
		t.Errorf("png not written: %v", err)
	}
}

func TestRenderCommandMissingScene(t *testing.T) {
	_, err := run(t, "render", filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[render]\nstyle = \"wavy\""), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", path, "config", "show"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"[engine]", "[render]", `style = "curved"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestCachePath(t *testing.T) {
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(pipeline.Stats{Cards: 3, Links: 2, Fallbacks: 1}, true)
	for _, want := range []string{"3 cards", "2 links", "1 fallbacks", iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
	if strings.Contains(statsLine(pipeline.Stats{}, false), "fallbacks") {
		t.Error("zero fallbacks should be omitted")
	}
}

func TestConnectionListModel(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "board.toml")
	if err := os.WriteFile(input, []byte(boardTOML+"\n[[links]]\nfrom = \"db\"\nto = \"api\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, log.InfoLevel)
	s, conns, err := c.loadConnections(context.Background(), input, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(conns) != 2 || len(s.Links) != 2 {
		t.Fatalf("got %d connections", len(conns))
	}

	var m tea.Model = NewConnectionListModel(conns)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	lm := m.(ConnectionListModel)
	if lm.Cursor != 1 || !lm.Expanded {
		t.Errorf("cursor = %d, expanded = %v", lm.Cursor, lm.Expanded)
	}

	view := lm.View()
	for _, want := range []string{"Connections", "db → api", "[2/2]", conns[1].ID} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	_, cmd := lm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit")
	}
}
