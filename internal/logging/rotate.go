package logging

import (
	"os"
	"sync"
)

// rotatingFile caps the log file at maxBytes. When a write would push the
// file past the cap, the current file is renamed to <path>.old (replacing
// any earlier backup) and writing continues on a fresh file, so at most
// one cap's worth of history survives a rotation.
type rotatingFile struct {
	mu      sync.Mutex
	path    string
	cap     int64
	current *os.File
	written int64
}

func openRotatingFile(path string, maxMB int) (*rotatingFile, error) {
	if maxMB <= 0 {
		maxMB = 10
	}
	w := &rotatingFile{path: path, cap: int64(maxMB) << 20}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *rotatingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	if w.written+int64(len(p)) > w.cap {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := w.current.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *rotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil
	}
	err := w.current.Close()
	w.current = nil
	return err
}

func (w *rotatingFile) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	w.current = f
	w.written = info.Size()
	return nil
}

func (w *rotatingFile) rotate() error {
	if w.current != nil {
		_ = w.current.Close()
		w.current = nil
	}
	// best effort: if the rename fails we still truncate by reopening
	_ = os.Rename(w.path, w.path+".old")
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.current = f
	w.written = 0
	return nil
}
