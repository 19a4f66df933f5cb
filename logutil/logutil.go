// Package logutil routes the standard logger into a size-capped rolling file
// so a long-lived tray process cannot fill the disk.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	logFileName = "shotbar_debug.log"
	maxLogBytes = 10 << 20
	maxArchives = 3
)

// Setup configures the standard logger. Disabled logging discards
// everything; a tray process has no console worth writing to.
func Setup(enabled bool) { SetupAt(enabled, ".") }

// SetupAt writes the log under dir, rolling at 10 MB and keeping three
// archives.
func SetupAt(enabled bool, dir string) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !enabled {
		log.SetOutput(io.Discard)
		return
	}
	w := &rollingFile{path: filepath.Join(dir, logFileName), limit: maxLogBytes}
	if err := w.open(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return
	}
	log.SetOutput(w)
}

// rollingFile appends to its file and rolls it to numbered archives when the
// next write would pass the size limit. The size is tracked in memory so the
// hot path never stats the file.
type rollingFile struct {
	mu    sync.Mutex
	path  string
	limit int64
	f     *os.File
	size  int64
}

func (w *rollingFile) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	w.f = f
	w.size = st.Size()
	return nil
}

func (w *rollingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.size+int64(len(p)) > w.limit {
		if err := w.roll(); err != nil {
			return 0, err
		}
	}
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// roll shifts the live file to .1 and each .n archive to .n+1, dropping the
// oldest.
func (w *rollingFile) roll() error {
	w.f.Close()
	os.Remove(archive(w.path, maxArchives))
	for i := maxArchives; i > 1; i-- {
		os.Rename(archive(w.path, i-1), archive(w.path, i))
	}
	if err := os.Rename(w.path, archive(w.path, 1)); err != nil {
		return err
	}
	return w.open()
}

func archive(path string, n int) string { return fmt.Sprintf("%s.%d", path, n) }
