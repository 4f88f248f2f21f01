package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fleet-go/internal/fs"
	"fleet-go/internal/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestReadAvatar(t *testing.T) {
	t.Run("png becomes data url", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/avatars/me.png", pngHeader)

		got, err := fs.ReadAvatar(fsmgr, "/avatars/me.png", 1024)
		if err != nil {
			t.Fatalf("ReadAvatar() error = %v", err)
		}
		if !strings.HasPrefix(got, "data:image/png;base64,") {
			t.Errorf("ReadAvatar() = %q, want image/png data url", got)
		}
	})

	t.Run("over size limit", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/avatars/big.png", append(pngHeader, make([]byte, 64)...))

		if _, err := fs.ReadAvatar(fsmgr, "/avatars/big.png", 32); err == nil {
			t.Error("expected error for oversized avatar")
		}
	})

	t.Run("not an image", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddFile("/avatars/notes.txt", []byte("hello"))

		if _, err := fs.ReadAvatar(fsmgr, "/avatars/notes.txt", 1024); err == nil {
			t.Error("expected error for text file")
		}
	})

	t.Run("directory", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddDirectory("/avatars")

		if _, err := fs.ReadAvatar(fsmgr, "/avatars", 1024); err == nil {
			t.Error("expected error for directory")
		}
	})

	t.Run("symlink", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()
		fsmgr.AddSymlink("/avatars/link.png")

		if _, err := fs.ReadAvatar(fsmgr, "/avatars/link.png", 1024); err == nil {
			t.Error("expected error for symlink")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		fsmgr := testutil.NewMockFilesystemManager()

		if _, err := fs.ReadAvatar(fsmgr, "/avatars/none.png", 1024); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestOSFilesystemManager(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "me.png")
	if err := os.WriteFile(file, pngHeader, 0o644); err != nil {
		t.Fatal(err)
	}
	fsmgr := fs.NewOSFilesystemManager()

	t.Run("reads regular file", func(t *testing.T) {
		got, err := fs.ReadAvatar(fsmgr, file, 1024)
		if err != nil {
			t.Fatalf("ReadAvatar() error = %v", err)
		}
		if !strings.HasPrefix(got, "data:image/png;base64,") {
			t.Errorf("ReadAvatar() = %q", got)
		}
	})

	t.Run("resolve rejects symlink", func(t *testing.T) {
		link := filepath.Join(dir, "link.png")
		if err := os.Symlink(file, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		if _, err := fsmgr.Resolve(link); err == nil {
			t.Error("expected error for symlink")
		}
	})

	t.Run("open rejects directory", func(t *testing.T) {
		p, err := fsmgr.Resolve(dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !p.IsDir() {
			t.Fatal("expected directory")
		}
		if _, err := fsmgr.Open(p); err == nil {
			t.Error("expected error opening directory")
		}
	})
}
