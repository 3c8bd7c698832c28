package logx

import (
	"os"
	"sync"

	"go.uber.org/zap/zapcore"
)

// rollWriter is a zapcore.WriteSyncer that rolls the file to a single
// ".1" generation once it crosses maxSize. One generation is enough:
// these logs exist for postmortems of a desktop helper, not auditing.
type rollWriter struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	file    *os.File
	size    int64
}

func newRollWriter(path string, maxSize int64) (*rollWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return &rollWriter{path: path, maxSize: maxSize, file: f, size: size}, nil
}

func (w *rollWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.maxSize > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.roll(); err != nil {
			// A failed roll must not lose the log line; roll reopened
			// the file, so the write below still lands.
			_ = err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rollWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

// roll moves the current file to the ".1" generation and starts
// fresh. The file is reopened even when close or rename fail so
// writes keep flowing, and the size counter restarts either way, so a
// failed rename is retried only after another full window instead of
// on every write.
func (w *rollWriter) roll() error {
	closeErr := w.file.Close()
	renameErr := os.Rename(w.path, w.path+".1")

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = f
	w.size = 0
	if closeErr != nil {
		return closeErr
	}
	return renameErr
}

var _ zapcore.WriteSyncer = (*rollWriter)(nil)
