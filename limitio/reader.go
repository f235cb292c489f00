package limitio

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// Reader throttles the bytes read from its source.
// A Reader without a rate limit simply forwards to the source.
type Reader struct {
	ctx     context.Context
	source  io.Reader
	limiter *rate.Limiter
}

// NewReader returns a reader that implements io.Reader with rate limiting.
// The context aborts any pending wait.
func NewReader(ctx context.Context, r io.Reader) *Reader {
	return &Reader{
		ctx:    ctx,
		source: r,
	}
}

// SetRateLimit sets rate limit (bytes/sec) to the reader.
// A burst lower than 1 is raised to 1.
func (s *Reader) SetRateLimit(bytesPerSec float64, burst int) *Reader {
	if burst < 1 {
		burst = 1
	}
	s.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), burst)
	return s
}

// Read bytes into p, never more than one burst at a time.
func (s *Reader) Read(p []byte) (int, error) {
	if s.limiter == nil {
		return s.source.Read(p)
	}
	if len(p) > s.limiter.Burst() {
		p = p[:s.limiter.Burst()]
	}
	n, err := s.source.Read(p)
	if n > 0 {
		if waitErr := s.limiter.WaitN(s.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

// ReadCloser adds throttling to a ReadCloser, closing the original source.
type ReadCloser struct {
	*Reader
	closer io.Closer
}

func NewReadCloser(ctx context.Context, rc io.ReadCloser, bytesPerSec float64, burst int) *ReadCloser {
	return &ReadCloser{
		Reader: NewReader(ctx, rc).SetRateLimit(bytesPerSec, burst),
		closer: rc,
	}
}

func (s *ReadCloser) Close() error {
	return s.closer.Close()
}
