package file

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mensylisir/xmansible/common"
)

// Helper to create a temporary file with content
func createTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	filePath := filepath.Join(dir, name)
	err := os.WriteFile(filePath, content, common.FileMode0644)
	if err != nil {
		t.Fatalf("Failed to write test file %s: %v", filePath, err)
	}
	return filePath
}

func TestPathExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingFile := createTestFile(t, tmpDir, "exists.txt", []byte("hello"))
	nonExistingPath := filepath.Join(tmpDir, "notexists.txt")
	existingDir := filepath.Join(tmpDir, "exists_dir")
	if err := os.Mkdir(existingDir, common.FileMode0755); err != nil {
		t.Fatalf("Failed to create test dir: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantExist bool
	}{
		{"existing file", existingFile, true},
		{"non-existing path", nonExistingPath, false},
		{"existing dir", existingDir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := PathExists(tt.path)
			if err != nil {
				t.Fatalf("PathExists() error = %v", err)
			}
			if exists != tt.wantExist {
				t.Errorf("PathExists() = %v, want %v", exists, tt.wantExist)
			}
		})
	}
}

func TestCreateDir(t *testing.T) {
	tmpDir := t.TempDir()

	nested := filepath.Join(tmpDir, "a", "b", "c")
	if err := CreateDir(nested); err != nil {
		t.Fatalf("CreateDir(%s) error = %v", nested, err)
	}
	info, err := os.Stat(nested)
	if err != nil || !info.IsDir() {
		t.Fatalf("CreateDir(%s) did not create a directory: %v", nested, err)
	}

	if err := CreateDir(nested); err != nil {
		t.Errorf("CreateDir on existing directory error = %v", err)
	}

	notADir := createTestFile(t, tmpDir, "plain.txt", []byte("x"))
	if err := CreateDir(notADir); err == nil {
		t.Errorf("CreateDir(%s) expected error for existing file", notADir)
	}
}

func TestWriteTempFile(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "scratch")

	path, err := WriteTempFile(tmpDir, "hosts-*", []byte("a\nb\n"), common.FileMode0600)
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	if filepath.Dir(path) != tmpDir {
		t.Errorf("WriteTempFile() dir = %s, want %s", filepath.Dir(path), tmpDir)
	}
	if !strings.HasPrefix(filepath.Base(path), "hosts-") {
		t.Errorf("WriteTempFile() name = %s, want prefix hosts-", filepath.Base(path))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "a\nb\n" {
		t.Errorf("content = %q, want %q", got, "a\nb\n")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != common.FileMode0600 {
			t.Errorf("mode = %v, want %v", info.Mode().Perm(), common.FileMode0600)
		}
	}

	other, err := WriteTempFile(tmpDir, "hosts-*", nil, common.FileMode0600)
	if err != nil {
		t.Fatalf("second WriteTempFile() error = %v", err)
	}
	if other == path {
		t.Errorf("WriteTempFile() returned the same path twice: %s", path)
	}
}

func TestRemoveIfExists(t *testing.T) {
	tmpDir := t.TempDir()
	path := createTestFile(t, tmpDir, "gone.txt", []byte("bye"))

	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists() error = %v", err)
	}
	if exists, _ := PathExists(path); exists {
		t.Errorf("%s still exists after RemoveIfExists", path)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Errorf("RemoveIfExists() on missing file error = %v", err)
	}
	if err := RemoveIfExists(""); err != nil {
		t.Errorf("RemoveIfExists(\"\") error = %v", err)
	}
}
