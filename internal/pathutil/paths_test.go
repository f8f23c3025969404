package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRedactPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"simple", "/home/user/.pathways/pathways.db", ".../.pathways/pathways.db"},
		{"deep", "/a/b/c/d/e.csv", ".../d/e.csv"},
		{"root file", "/file.csv", "file.csv"},
		{"relative", "out/f280.csv", ".../out/f280.csv"},
		{"just filename", "f280.csv", "f280.csv"},
		{"trailing slash cleaned", "/home/user/.pathways/", ".../user/.pathways"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactPath(tt.input)
			if got != tt.want {
				t.Errorf("RedactPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultDBPath(t *testing.T) {
	tests := []struct {
		name        string
		projectRoot string
		want        string
	}{
		{"absolute root", "/home/user/project", "/home/user/project/.pathways/pathways.db"},
		{"relative root", ".", ".pathways/pathways.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultDBPath(tt.projectRoot); got != tt.want {
				t.Errorf("DefaultDBPath(%q) = %q, want %q", tt.projectRoot, got, tt.want)
			}
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")

	if err := EnsureParentDir(path); err != nil {
		t.Fatalf("EnsureParentDir() error = %v", err)
	}
	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("parent dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("parent is not a directory")
	}

	// Idempotent
	if err := EnsureParentDir(path); err != nil {
		t.Errorf("second EnsureParentDir() error = %v", err)
	}
}
