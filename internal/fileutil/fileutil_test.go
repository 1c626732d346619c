package fileutil_test

// Notes:
// - WriteTempFile error branches for WriteString and Close are not tested because
//   triggering disk write failures is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mmd2svg/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{name: "mermaid source", extension: "mmd", wantErr: nil},
		{name: "html document", extension: "html", wantErr: nil},
		{name: "empty extension", extension: "", wantErr: fileutil.ErrExtensionEmpty},
		{name: "forward slash", extension: "../etc/passwd", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "backslash", extension: "..\\windows", wantErr: fileutil.ErrExtensionPathTraversal},
		{name: "null byte", extension: "mmd\x00exe", wantErr: fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary artifact lifecycle
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	content := "graph TD\nA-->B"
	path, cleanup, err := fileutil.WriteTempFile(content, "mmd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if !strings.HasPrefix(filepath.Base(path), "mmd2svg-") {
		t.Errorf("temp file %q should start with mmd2svg-", filepath.Base(path))
	}
	if filepath.Ext(path) != ".mmd" {
		t.Errorf("temp file extension = %q, want .mmd", filepath.Ext(path))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q, want %q", got, content)
	}
}

func TestWriteTempFile_UniquePerCall(t *testing.T) {
	t.Parallel()

	first, cleanupFirst, err := fileutil.WriteTempFile("a", "mmd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanupFirst()

	second, cleanupSecond, err := fileutil.WriteTempFile("b", "mmd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanupSecond()

	if first == second {
		t.Errorf("expected distinct temp paths, both were %q", first)
	}
}

func TestWriteTempFile_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("graph LR", "mmd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cleanup()
	if fileutil.FileExists(path) {
		t.Errorf("temp file %q still exists after cleanup", path)
	}

	// Second call must not panic.
	cleanup()
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile("x", "../mmd")
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Fatalf("error = %v, want ErrExtensionPathTraversal", err)
	}
	if cleanup != nil {
		t.Error("cleanup should be nil on error")
	}
}

// ---------------------------------------------------------------------------
// TestSwapExtension - Output path derivation
// ---------------------------------------------------------------------------

func TestSwapExtension(t *testing.T) {
	t.Parallel()

	replaceable := []string{".svg", ".png", ".pdf"}

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "svg replaced", path: "my_diagram.svg", want: "my_diagram.html"},
		{name: "uppercase svg replaced", path: "out/Diagram.SVG", want: "out/Diagram.html"},
		{name: "png replaced", path: "flow.png", want: "flow.html"},
		{name: "no extension appended", path: "diagram", want: "diagram.html"},
		{name: "unknown extension appended", path: "diagram.mmd", want: "diagram.mmd.html"},
		{name: "dotted directory untouched", path: "v1.svg/diagram", want: "v1.svg/diagram.html"},
		{name: "svg in directory only replaced at end", path: "svg.svg/a.svg", want: "svg.svg/a.html"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.SwapExtension(tt.path, ".html", replaceable...)
			if got != tt.want {
				t.Errorf("SwapExtension(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular file detection
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "diagram.mmd")
	if err := os.WriteFile(file, []byte("graph TD"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if !fileutil.FileExists(file) {
		t.Errorf("FileExists(%q) = false, want true", file)
	}
	if fileutil.FileExists(dir) {
		t.Errorf("FileExists(%q) = true for directory, want false", dir)
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath / TestIsURL - String classification
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"mmd2svg":          false,
		"./config.yaml":    true,
		"C:\\cfg\\a.yaml":  true,
		"sub/dir":          true,
		"my-config":        false,
		"../shared/a.toml": true,
	}
	for in, want := range tests {
		if got := fileutil.IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js": true,
		"http://localhost:8080/mermaid.js":                         true,
		"./mermaid.min.js":                                         false,
		"ftp://example.com":                                        false,
	}
	for in, want := range tests {
		if got := fileutil.IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
