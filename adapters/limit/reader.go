package limit

import (
	"fmt"
	"io"
)

type ReachLimitError struct {
	MaxBytes int64
}

func (e *ReachLimitError) Error() string {
	return fmt.Sprintf("reach limit of %s", FormatBytes(e.MaxBytes))
}

// NewReadCloser 包裝請求內容，讀取超過 maxBytes 時回傳 ReachLimitError
func NewReadCloser(rc io.ReadCloser, maxBytes int64) io.ReadCloser {
	return &maxSizeReadCloser{rc: rc, max: maxBytes, remaining: maxBytes}
}

type maxSizeReadCloser struct {
	rc        io.ReadCloser
	max       int64
	remaining int64
}

func (r *maxSizeReadCloser) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	// 多讀一個位元組才能分辨剛好讀完和超過上限
	if int64(len(p)) > r.remaining+1 {
		p = p[:r.remaining+1]
	}
	n, err := r.rc.Read(p)
	if int64(n) <= r.remaining {
		r.remaining -= int64(n)
		return n, err
	}
	n = int(r.remaining)
	r.remaining = 0
	return n, &ReachLimitError{MaxBytes: r.max}
}

func (r *maxSizeReadCloser) Close() error {
	return r.rc.Close()
}
