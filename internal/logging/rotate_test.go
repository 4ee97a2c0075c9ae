package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRotatingFileCapsCurrentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	w, err := openRotatingFile(path, 1)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	defer w.Close()

	chunk := make([]byte, 600*1024)
	for i := 0; i < 3; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log: %v", err)
	}
	if info.Size() > 1<<20 {
		t.Fatalf("current log is %d bytes, want <= 1MB", info.Size())
	}
	old, err := os.Stat(path + ".old")
	if err != nil {
		t.Fatalf("stat backup: %v", err)
	}
	if old.Size() == 0 {
		t.Fatal("rotation left an empty backup")
	}
}

func TestRotatingFileKeepsOneBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	w, err := openRotatingFile(path, 1)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	defer w.Close()

	chunk := make([]byte, 900*1024)
	for i := 0; i < 4; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("log dir = %v, want the live file and one backup", names)
	}
}
