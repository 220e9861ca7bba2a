package helpers

import (
	"fmt"
	"io"
)

// ReadAllAndClose reads r to EOF and closes it.
func ReadAllAndClose(r io.ReadCloser) ([]byte, error) {
	defer r.Close()
	return io.ReadAll(r)
}

// ReadLimitedAndClose reads at most limit bytes from r and closes it.
// Bodies longer than limit are truncated, not rejected.
func ReadLimitedAndClose(r io.ReadCloser, limit int64) ([]byte, error) {
	defer r.Close()
	if limit <= 0 {
		return nil, fmt.Errorf("read limit must be positive, got %d", limit)
	}
	return io.ReadAll(io.LimitReader(r, limit))
}
