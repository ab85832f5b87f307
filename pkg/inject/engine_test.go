// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/hookwire/hookwire/pkg/hook"
	"github.com/hookwire/hookwire/pkg/resolve"
	"github.com/hookwire/hookwire/pkg/types"
	"github.com/hookwire/hookwire/pkg/vid"
)

const (
	varsPath   = "/proj/src/scss/global/_variables.scss"
	themesPath = "/proj/src/scss/_themes.scss"
	varsID     = vid.ID(vid.Prefix + varsPath)
	themesID   = vid.ID(vid.Prefix + themesPath)
)

// memFiles serves hook files from memory, keyed by slash path.
func memFiles(files map[string]string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		data, ok := files[filepath.ToSlash(name)]
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return []byte(data), nil
	}
}

func staticContent(s string) hook.ContentFunc {
	return func() (string, error) { return s, nil }
}

func newTestEngine(t *testing.T, files map[string]string, hooks ...*hook.Hook) *Engine {
	t.Helper()
	gen := vid.Generator{Root: "/proj"}
	return New(hook.NewRegistry(gen, hooks...),
		WithGenerator(gen),
		WithReadFile(memFiles(files)),
		WithSentinel("generate-global-css-vars.ts"),
	)
}

func TestEngine_Resolve(t *testing.T) {
	t.Parallel()

	vars := &hook.Hook{FilePath: varsPath, Matcher: hook.Regex(`/global/_?variables(\.scss)?$`)}
	themes := &hook.Hook{FilePath: themesPath, Matcher: hook.Predicate(func(p string) bool {
		return strings.HasSuffix(p, "/scss/themes")
	})}
	e := newTestEngine(t, nil, vars, themes)

	tests := []struct {
		name      string
		specifier string
		importer  string
		want      vid.ID
	}{
		{"regex hook", "./global/variables", "/proj/src/scss/main.scss", varsID},
		{"predicate hook", "./themes", "/proj/src/scss/main.scss", themesID},
		{"absolute specifier", varsPath, "", varsID},
		{"virtual importer maps back", "./global/_variables.scss", string(themesID), varsID},
		{"virtual importer prefix case", "./themes", strings.ToUpper(vid.Prefix) + themesPath, themesID},
		{"no hook matches", "./colors", "/proj/src/scss/main.scss", ""},
		{"external package", "bootstrap", "/proj/src/main.scss", ""},
		{"alias", "@/scss/themes", "/proj/src/main.scss", ""},
		{"foreign scheme", "https://cdn/x.css", "/proj/src/main.scss", ""},
		{"no importer", "./themes", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := e.Resolve(tt.specifier, tt.importer)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Resolve(%q, %q) = %+v, want nil", tt.specifier, tt.importer, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Resolve(%q, %q) = nil, want %s", tt.specifier, tt.importer, tt.want)
			}
			if got.ID != tt.want {
				t.Errorf("Resolve(%q, %q).ID = %s, want %s", tt.specifier, tt.importer, got.ID, tt.want)
			}
			if got.Meta.Inject.Loader != "scss" {
				t.Errorf("Meta.Inject.Loader = %q, want %q", got.Meta.Inject.Loader, "scss")
			}
		})
	}
}

func TestEngine_ResolveUnknownVirtualImporterUsedAsGiven(t *testing.T) {
	t.Parallel()

	var seen []string
	catchAll := &hook.Hook{FilePath: varsPath, Matcher: hook.Predicate(func(p string) bool {
		seen = append(seen, p)
		return false
	})}
	e := newTestEngine(t, nil, catchAll)

	e.Resolve("./x.scss", vid.Prefix+"/proj/elsewhere/y.scss")
	if len(seen) != 1 || seen[0] != vid.Prefix+"/proj/elsewhere/x.scss" {
		t.Errorf("matcher saw %v, want the importer used as given", seen)
	}
}

func TestEngine_ResolveFirstMatchWins(t *testing.T) {
	t.Parallel()

	all := func(string) bool { return true }
	first := &hook.Hook{FilePath: "/proj/a.ts", Matcher: hook.Predicate(all)}
	second := &hook.Hook{FilePath: "/proj/b.ts", Matcher: hook.Predicate(all)}
	e := newTestEngine(t, nil, first, second)

	got := e.Resolve("./anything", "/proj/index.ts")
	if got == nil || got.ID != vid.ID(vid.Prefix+"/proj/a.ts") {
		t.Fatalf("Resolve() = %+v, want first registered hook", got)
	}
	if got.Meta.Inject.Loader != "ts" {
		t.Errorf("Loader = %q, want %q", got.Meta.Inject.Loader, "ts")
	}
}

func TestEngine_ResolveSkipsDelegationCycle(t *testing.T) {
	t.Parallel()

	a := &hook.Hook{FilePath: "/proj/a.scss"}
	b := &hook.Hook{FilePath: "/proj/b.scss", Matcher: hook.Delegate(a)}
	a.Matcher = hook.Delegate(b)
	fallback := &hook.Hook{FilePath: "/proj/c.scss", Matcher: hook.Regex(`x\.scss$`)}

	var buf bytes.Buffer
	gen := vid.Generator{Root: "/proj"}
	e := New(hook.NewRegistry(gen, a, b, fallback), WithGenerator(gen), WithLogger(log.New(&buf)))

	got := e.Resolve("./x.scss", "/proj/main.scss")
	if got == nil || got.ID != vid.ID(vid.Prefix+"/proj/c.scss") {
		t.Fatalf("Resolve() = %+v, want fallback hook", got)
	}
	if !strings.Contains(buf.String(), "skipping hook matcher") {
		t.Errorf("expected a warning about the cycle, log = %q", buf.String())
	}
}

func TestEngine_LoadNotOurs(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, map[string]string{varsPath: "x"}, &hook.Hook{FilePath: varsPath})

	for _, id := range []string{varsPath, "virtual:other:/x", vid.Prefix + "/proj/unregistered.scss"} {
		out, ok, err := e.Load(id)
		if ok || err != nil || out != "" {
			t.Errorf("Load(%q) = %q, %v, %v; want \"\", false, nil", id, out, ok, err)
		}
	}
}

func TestEngine_LoadSplicesMarker(t *testing.T) {
	t.Parallel()

	src := "$base: 1;\n" +
		"\n" +
		"// {generate-global-css-vars.ts: variables}\n" +
		"\n" +
		"$after: 2;\n"
	e := newTestEngine(t, map[string]string{varsPath: src},
		&hook.Hook{FilePath: varsPath, Content: staticContent("$generated: (a: 1);")})

	out, ok, err := e.Load(string(varsID))
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}

	want := "$base: 1;\n" +
		"\n" +
		"// [START INJECTION]: generate-global-css-vars.ts:\n" +
		"\n" +
		"$generated: (a: 1);\n" +
		"\n" +
		"// [END INJECTION]: generate-global-css-vars.ts:\n" +
		"\n" +
		"$after: 2;\n"
	if out != want {
		t.Errorf("Load() =\n%s\nwant\n%s", out, want)
	}
}

func TestEngine_LoadIsDeterministicAndIdempotent(t *testing.T) {
	t.Parallel()

	src := "a {}\n  // GENERATE-GLOBAL-CSS-VARS.TS here\nb {}\n"
	files := map[string]string{varsPath: src}
	h := &hook.Hook{FilePath: varsPath, Content: staticContent("$x: 1;")}
	e := newTestEngine(t, files, h)

	first, _, err := e.Load(string(varsID))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, _, err := e.Load(string(varsID))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if first != second {
		t.Errorf("successive loads differ:\n%s\n---\n%s", first, second)
	}

	// Feeding spliced output back in replaces the old block, not nests it.
	files[varsPath] = first
	third, _, err := e.Load(string(varsID))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if third != first {
		t.Errorf("re-splicing changed output:\n%s\n---\n%s", third, first)
	}
	if n := strings.Count(third, "[START INJECTION]"); n != 1 {
		t.Errorf("found %d START markers, want 1", n)
	}
}

func TestEngine_LoadCallsContentEveryTime(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	h := &hook.Hook{FilePath: varsPath, Content: func() (string, error) {
		n := calls.Add(1)
		return strings.Repeat("x", int(n)), nil
	}}
	e := newTestEngine(t, map[string]string{varsPath: "// generate-global-css-vars.ts\n"}, h)

	first, _, _ := e.Load(string(varsID))
	second, _, _ := e.Load(string(varsID))
	if calls.Load() != 2 {
		t.Errorf("content called %d times, want 2", calls.Load())
	}
	if first == second {
		t.Error("content result appears to be cached")
	}
}

func TestEngine_LoadWithoutMarker(t *testing.T) {
	t.Parallel()

	src := "$plain: 1;\n"
	called := false
	h := &hook.Hook{FilePath: varsPath, Content: func() (string, error) {
		called = true
		return "never", nil
	}}
	e := newTestEngine(t, map[string]string{varsPath: src}, h)

	out, ok, err := e.Load(string(varsID))
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if out != src {
		t.Errorf("Load() = %q, want unchanged %q", out, src)
	}
	if called {
		t.Error("content generated without a marker")
	}
}

func TestEngine_LoadRewritesRelativeImports(t *testing.T) {
	t.Parallel()

	src := "@use './skins/dark';\n" +
		"@use 'other/non-matching';\n" +
		"@import \"../mixins\";\n" +
		"@use   './skins/light' as light;\n"
	e := newTestEngine(t, map[string]string{varsPath: src}, &hook.Hook{FilePath: varsPath})

	out, _, err := e.Load(string(varsID))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := "@use '" + vid.Prefix + "/proj/src/scss/global/skins/dark';\n" +
		"@use 'other/non-matching';\n" +
		"@import \"" + vid.Prefix + "/proj/src/scss/mixins\";\n" +
		"@use   '" + vid.Prefix + "/proj/src/scss/global/skins/light' as light;\n"
	if out != want {
		t.Errorf("Load() =\n%s\nwant\n%s", out, want)
	}
}

func TestEngine_LoadCommentSyntaxByExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file   string
		src    string
		wantIn string
	}{
		{"/proj/index.html", "<body>\n<!-- generate-global-css-vars.ts -->\n</body>\n", "<!-- [START INJECTION]: generate-global-css-vars.ts:-->"},
		{"/proj/app.yml", "a: 1\n# generate-global-css-vars.ts\n", "# [END INJECTION]: generate-global-css-vars.ts:"},
		{"/proj/theme.toml", "# generate-global-css-vars.ts\n", "# [START INJECTION]: generate-global-css-vars.ts:"},
		{"/proj/App.TSX", "// generate-global-css-vars.ts\n", "// [START INJECTION]: generate-global-css-vars.ts:"},
		{"/proj/data.less", "/* generate-global-css-vars.ts */\n", "/* [START INJECTION]: generate-global-css-vars.ts:*/"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, map[string]string{tt.file: tt.src},
				&hook.Hook{FilePath: types.FilesystemPath(tt.file), Content: staticContent("BODY")})
			out, ok, err := e.Load(vid.Prefix + tt.file)
			if err != nil || !ok {
				t.Fatalf("Load() = %v, %v", ok, err)
			}
			if !strings.Contains(out, tt.wantIn) || !strings.Contains(out, "\nBODY\n") {
				t.Errorf("Load() =\n%s\nwant it to contain %q and the body", out, tt.wantIn)
			}
		})
	}
}

func TestEngine_LoadMissingFile(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, map[string]string{}, &hook.Hook{FilePath: varsPath})

	_, ok, err := e.Load(string(varsID))
	if !ok {
		t.Error("Load() should claim a registered id even when reading fails")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error = %v, want *LoadError", err)
	}
	if loadErr.ID != varsID {
		t.Errorf("LoadError.ID = %s, want %s", loadErr.ID, varsID)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist, got %v", err)
	}
}

func TestEngine_LoadContentError(t *testing.T) {
	t.Parallel()

	boom := errors.New("skins dir unreadable")
	h := &hook.Hook{FilePath: varsPath, Content: func() (string, error) { return "", boom }}
	e := newTestEngine(t, map[string]string{varsPath: "// generate-global-css-vars.ts\n"}, h)

	_, _, err := e.Load(string(varsID))
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want it to wrap %v", err, boom)
	}
}

func TestEngine_LoadLogsWithoutChangingOutput(t *testing.T) {
	t.Parallel()

	files := map[string]string{varsPath: "// generate-global-css-vars.ts\n"}
	h := &hook.Hook{FilePath: varsPath, Content: staticContent("$v: 1;")}

	quiet := newTestEngine(t, files, h)
	want, _, err := quiet.Load(string(varsID))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	gen := vid.Generator{Root: "/proj"}
	loud := New(hook.NewRegistry(gen, h),
		WithGenerator(gen),
		WithReadFile(memFiles(files)),
		WithSentinel("generate-global-css-vars.ts"),
		WithLogger(logger),
		WithPolicy(resolve.New()),
	)
	got, _, err := loud.Load(string(varsID))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("debug logging changed output: %q vs %q", got, want)
	}
	if !strings.Contains(buf.String(), varsPath) {
		t.Errorf("debug log should name the file, got %q", buf.String())
	}
}

func TestEngine_LoadFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "_config.scss")
	if err := os.WriteFile(file, []byte("// hookwire: ids\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	gen := vid.Generator{Root: dir}
	e := New(hook.NewRegistry(gen, &hook.Hook{FilePath: "_config.scss", Content: staticContent("$ids: ();")}),
		WithGenerator(gen))

	if e.Sentinel() != DefaultSentinel {
		t.Errorf("Sentinel() = %q, want %q", e.Sentinel(), DefaultSentinel)
	}

	id := gen.Generate("_config.scss", vid.AbsolutePrefixed)
	out, ok, err := e.Load(string(id))
	if err != nil || !ok {
		t.Fatalf("Load(%s) = %v, %v", id, ok, err)
	}
	if !strings.Contains(out, "// [START INJECTION]: hookwire:\n\n$ids: ();\n\n// [END INJECTION]: hookwire:") {
		t.Errorf("Load() = %q", out)
	}
}

func TestEngine_RealPath(t *testing.T) {
	t.Parallel()

	e := New(nil, WithGenerator(vid.Generator{Root: "/proj"}))

	got, ok := e.RealPath("Virtual:Hookwire:/proj/a/b.scss")
	if !ok || got != "/proj/a/b.scss" {
		t.Errorf("RealPath() = %q, %v", got, ok)
	}
	if _, ok := e.RealPath("/proj/a/b.scss"); ok {
		t.Error("RealPath() accepted a non-virtual id")
	}
	if !e.IsVirtual(vid.Prefix + "x") || e.IsVirtual("x") {
		t.Error("IsVirtual() misclassified identifiers")
	}
}
