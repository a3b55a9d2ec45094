package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes every chunk to all of its writers, e.g. stdout and a log file.
// A failing writer does not stop the others.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

// Write reports len(p) as long as at least one writer took the whole chunk,
// so the logger does not treat a broken log file as a lost log line.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	delivered := false
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if written == len(p) {
			delivered = true
		}
	}
	if !delivered {
		return 0, err
	}
	return len(p), err
}
