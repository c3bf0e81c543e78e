package extract

import (
	"context"
	"errors"
)

// ErrUnsupported marks a strategy that cannot serve the requested
// operation or URL; the chain skips it and moves on.
var ErrUnsupported = errors.New("extract: unsupported")

// Format describes one downloadable rendition of a video.
type Format struct {
	Itag          int
	QualityLabel  string
	Height        int
	MimeType      string
	HasVideo      bool
	HasAudio      bool
	ContentLength int64
}

// Metadata is what an extractor resolves a video URL into.
type Metadata struct {
	Title       string
	Description string
	Thumbnail   string
	Formats     []Format
}

// ProgressFunc receives cumulative byte counts during a transfer.
// total is 0 when the upstream does not report a length.
type ProgressFunc func(received, total int64)

// Extractor resolves a video URL to metadata and fetches the bytes of a
// chosen format. Implementations must be safe for concurrent use.
type Extractor interface {
	Name() string
	Supports(url string) bool
	Info(ctx context.Context, url string) (*Metadata, error)
	Download(ctx context.Context, url string, format Format, destPath string, progress ProgressFunc) error
}
