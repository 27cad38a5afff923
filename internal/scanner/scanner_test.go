package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/groundkit/ground/pkg/config"
	"github.com/groundkit/ground/pkg/extractor"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewScanner(t *testing.T) {
	s := NewScanner(nil)
	if s == nil || s.config == nil {
		t.Fatal("NewScanner(nil) must fall back to defaults")
	}

	cfg := config.DefaultConfig()
	if s := NewScanner(cfg); s.config != cfg {
		t.Error("scanner.config should be the provided config")
	}
}

func TestScanDirFindsSupportedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"src/app.ts":           "export const a = 1\n",
		"src/view.tsx":         "export const b = 2\n",
		"src/legacy.js":        "module.exports = {}\n",
		"src/Widget.svelte":    "<script>let x = 1</script>\n",
		"docs/readme.md":       "# readme\n",
		"assets/styles.css":    ".a {}\n",
		"scripts/generate.mjs": "console.log('hi')\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 5 {
		t.Errorf("found %d files, want 5", len(result))
		for _, f := range result {
			t.Logf("  found: %s", f)
		}
	}
}

func TestScanDirExcludesDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"node_modules/pkg/index.js": "module.exports = {}\n",
		"dist/bundle.js":            "var x = 1\n",
		".svelte-kit/gen.js":        "var y = 2\n",
		"src/app.ts":                "export const a = 1\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 1 {
		t.Errorf("found %d files, want 1 (excluded dirs skipped)", len(result))
		for _, f := range result {
			t.Logf("  found: %s", f)
		}
	}
}

func TestScanDirExcludesPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.ts":        "export const a = 1\n",
		"vendor.min.js": "var m = 1\n",
		"types.d.ts":    "export declare const t: number\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 1 {
		t.Errorf("found %d files, want 1", len(result))
		for _, f := range result {
			t.Logf("  found: %s", f)
		}
	}
}

func TestScanDirWithGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeTree(t, tmpDir, map[string]string{
		".gitignore":       "generated/\n",
		"src/app.ts":       "export const a = 1\n",
		"generated/gen.ts": "export const g = 1\n",
	})

	cfg := config.DefaultConfig()
	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range result {
		if filepath.Base(f) == "gen.ts" {
			t.Error("gitignored file should be skipped")
		}
	}

	cfg = config.DefaultConfig()
	cfg.Exclude.Gitignore = false
	result, err = NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range result {
		if filepath.Base(f) == "gen.ts" {
			found = true
		}
	}
	if !found {
		t.Error("with gitignore disabled the file should be found")
	}
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.ts":     "export const a = 1\n",
		"readme.txt": "hello\n",
	})

	s := NewScanner(nil)
	if ok, err := s.ScanFile(filepath.Join(tmpDir, "app.ts")); err != nil || !ok {
		t.Errorf("ScanFile(app.ts) = %v, %v, want true", ok, err)
	}
	if ok, err := s.ScanFile(filepath.Join(tmpDir, "readme.txt")); err != nil || ok {
		t.Errorf("ScanFile(readme.txt) = %v, %v, want false", ok, err)
	}
	if ok, err := s.ScanFile(tmpDir); err != nil || ok {
		t.Errorf("ScanFile(dir) = %v, %v, want false", ok, err)
	}
	if _, err := s.ScanFile(filepath.Join(tmpDir, "missing.ts")); err == nil {
		t.Error("ScanFile on missing path should error")
	}
}

func TestFilterAndGroupByLanguage(t *testing.T) {
	files := []string{
		"/p/app.ts",
		"/p/lib.ts",
		"/p/view.tsx",
		"/p/legacy.js",
		"/p/Widget.svelte",
		"/p/readme.txt",
	}
	s := NewScanner(nil)

	if got := s.FilterByLanguage(files, extractor.LangTypeScript); len(got) != 2 {
		t.Errorf("FilterByLanguage(TypeScript) = %d files, want 2", len(got))
	}
	if got := s.FilterByLanguage(files, extractor.LangSvelte); len(got) != 1 {
		t.Errorf("FilterByLanguage(Svelte) = %d files, want 1", len(got))
	}

	groups := s.GroupByLanguage(files)
	if len(groups[extractor.LangTSX]) != 1 {
		t.Errorf("GroupByLanguage()[TSX] = %d, want 1", len(groups[extractor.LangTSX]))
	}
	if _, ok := groups[extractor.LangUnknown]; ok {
		t.Error("unknown language must not appear in groups")
	}
}

func TestFilterBySize(t *testing.T) {
	tmpDir := t.TempDir()
	small := filepath.Join(tmpDir, "small.ts")
	large := filepath.Join(tmpDir, "large.ts")
	if err := os.WriteFile(small, []byte("export const a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(large, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	if filtered, skipped := FilterBySize([]string{small, large}, 0); len(filtered) != 2 || skipped != 0 {
		t.Errorf("no limit: got %d kept, %d skipped", len(filtered), skipped)
	}
	filtered, skipped := FilterBySize([]string{small, large}, 100)
	if len(filtered) != 1 || skipped != 1 || filtered[0] != small {
		t.Errorf("limit 100: got %v, %d skipped", filtered, skipped)
	}
	if _, skipped := FilterBySize([]string{small, filepath.Join(tmpDir, "ghost.ts")}, 100); skipped != 1 {
		t.Errorf("stat error should count as skipped, got %d", skipped)
	}
}

func TestScanDirSkipsEscapingSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, outside, map[string]string{"outside.ts": "export const o = 1\n"})
	writeTree(t, tmpDir, map[string]string{"app.ts": "export const a = 1\n"})

	if err := os.Symlink(outside, filepath.Join(tmpDir, "linked")); err != nil {
		t.Skip("symlinks not supported")
	}

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range result {
		if filepath.Base(f) == "outside.ts" {
			t.Error("symlink escaping the root must not be followed")
		}
	}
}

func TestFindGitRoot(t *testing.T) {
	tmpDir := t.TempDir()
	if got := findGitRoot(tmpDir); got != "" {
		t.Errorf("non-git dir: got %q, want empty", got)
	}

	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(tmpDir, "src", "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := findGitRoot(sub); got != tmpDir {
		t.Errorf("findGitRoot from subdir: got %q, want %q", got, tmpDir)
	}
}
