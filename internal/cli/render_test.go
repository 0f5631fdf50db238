package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/formationbot/pkg/errors"
)

// execute runs the root command with args and returns what it wrote to
// stdout. The cache lives in a per-test directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,json,dot", []string{"svg", "png", "json", "dot"}},
		{"spaces and case", " SVG , png ", []string{"svg", "png"}},
		{"duplicates", "png,png", []string{"png"}},
		{"only commas", ",,", []string{"svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
				t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "", "formation"},
		{"", "-", "formation"},
		{"", "dances/box.txt", "dances/box"},
		{"out/box.svg", "", "out/box"},
		{"out/box.png", "in.txt", "out/box"},
		{"out/box", "", "out/box"},
		{"out/box.tmp", "", "out/box.tmp"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths([]string{"png"}, "", "couple.img")
	if diff := cmp.Diff(map[string]string{"png": "couple.img"}, got); diff != "" {
		t.Errorf("single format mismatch (-want +got):\n%s", diff)
	}

	got = outputPaths([]string{"svg", "json"}, "box.txt", "")
	want := map[string]string{"svg": "box.svg", "json": "box.json"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("multiple formats mismatch (-want +got):\n%s", diff)
	}
}

func TestReadNotation(t *testing.T) {
	file := filepath.Join(t.TempDir(), "box.txt")
	if err := os.WriteFile(file, []byte("<>/><\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		stdin string
		args  []string
		input string
		want  string
	}{
		{"argument wins", "ignored", []string{"r1>"}, file, "r1>"},
		{"file", "ignored", nil, file, "<>/><"},
		{"stdin", "b2<\r\n", nil, "", "b2<"},
		{"dash is stdin", "<>", nil, "-", "<>"},
		{"keeps inner newlines", "<>\n><\n", nil, "", "<>\n><"},
		{"long stdin", strings.Repeat("^", errs.MaxNotationLength+1) + "\n", nil, "", strings.Repeat("^", errs.MaxNotationLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readNotation(strings.NewReader(tt.stdin), tt.args, tt.input)
			if err != nil {
				t.Fatalf("readNotation() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("readNotation() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := readNotation(nil, nil, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("readNotation() on a missing file succeeded")
	}
}

func TestRenderCommandStdout(t *testing.T) {
	out, err := execute(t, "r1> b2<\n", "render", "--no-cache")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, `viewBox="-3 -1 4 2"`) || !strings.Contains(out, `width="400"`) {
		t.Errorf("unexpected svg:\n%s", out)
	}
}

func TestRenderCommandFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "box")

	if _, err := execute(t, "", "render", "<>/><", "-f", "svg,json,png", "--engine", "native", "-o", base); err != nil {
		t.Fatalf("render error: %v", err)
	}

	for ext, prefix := range map[string]string{"svg": "<svg", "json": "{", "png": "\x89PNG"} {
		data, err := os.ReadFile(base + "." + ext)
		if err != nil {
			t.Fatalf("read %s: %v", ext, err)
		}
		if !strings.HasPrefix(strings.TrimSpace(string(data)), prefix) {
			t.Errorf("%s output starts with %q", ext, data[:min(len(data), 10)])
		}
	}
}

func TestRenderCommandDOT(t *testing.T) {
	out, err := execute(t, "", "render", ">", "-f", "dot")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "graph formation") {
		t.Errorf("unexpected dot:\n%s", out)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"bad format", []string{"render", ">", "-f", "gif"}, errs.ErrCodeInvalidFormat},
		{"bad engine", []string{"render", ">", "--engine", "cairo"}, errs.ErrCodeInvalidEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderCommandLongNotation(t *testing.T) {
	notation := strings.Repeat("^", errs.MaxNotationLength+1)

	for name, run := range map[string]func() (string, error){
		"argument": func() (string, error) { return execute(t, "", "render", notation, "-f", "json") },
		"stdin":    func() (string, error) { return execute(t, notation+"\n", "render", "-f", "json") },
	} {
		t.Run(name, func(t *testing.T) {
			out, err := run()
			if err != nil {
				t.Fatalf("render error: %v", err)
			}
			if got := strings.Count(out, `"facing"`); got != errs.MaxNotationLength+1 {
				t.Errorf("json has %d dancers, want %d", got, errs.MaxNotationLength+1)
			}
		})
	}
}

func TestRenderCommandReportsOnStderr(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	base := filepath.Join(t.TempDir(), "couple")

	root := New(io.Discard, LogInfo).RootCommand()
	var stderr bytes.Buffer
	root.SetOut(io.Discard)
	root.SetErr(&stderr)
	root.SetArgs([]string{"render", "r1> b2<", "-f", "svg,json", "-o", base})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(stderr.String(), "Rendered 2 dancers") {
		t.Errorf("stderr = %q, want the dancer count", stderr.String())
	}

	root = New(io.Discard, LogInfo).RootCommand()
	stderr.Reset()
	root.SetOut(io.Discard)
	root.SetErr(&stderr)
	root.SetArgs([]string{"render", "r1>", "-f", "svg,json", "--width=-1", "-o", base})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("render with a negative width succeeded")
	}
	if !strings.Contains(stderr.String(), "Render failed") {
		t.Errorf("stderr = %q, want a failure line", stderr.String())
	}
}
