package extract

import (
	"context"
	"errors"
	"fmt"
)

// Chain tries its strategies in order until one succeeds. A strategy that
// does not support the URL, or answers ErrUnsupported for the operation,
// is skipped; when every strategy fails the last real error is reported.
type Chain struct {
	strategies []Extractor
}

func NewChain(strategies ...Extractor) *Chain {
	return &Chain{strategies: strategies}
}

// Supports reports whether any strategy recognizes the URL.
func (c *Chain) Supports(url string) bool {
	for _, s := range c.strategies {
		if s.Supports(url) {
			return true
		}
	}
	return false
}

func (c *Chain) Info(ctx context.Context, url string) (*Metadata, error) {
	var lastErr error
	for _, s := range c.strategies {
		if !s.Supports(url) {
			continue
		}
		md, err := s.Info(ctx, url)
		if err == nil {
			return md, nil
		}
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		lastErr = fmt.Errorf("%s: %w", s.Name(), err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no extractor supports this URL")
	}
	return nil, lastErr
}

func (c *Chain) Download(ctx context.Context, url string, format Format, destPath string, progress ProgressFunc) error {
	var lastErr error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Supports(url) {
			continue
		}
		err := s.Download(ctx, url, format, destPath, progress)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		lastErr = fmt.Errorf("%s: %w", s.Name(), err)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no extractor supports this URL")
	}
	return lastErr
}
