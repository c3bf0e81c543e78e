package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// YTDLP shells out to yt-dlp as the transfer fallback for videos the
// direct strategy cannot fetch. Metadata stays on the direct strategy;
// Info reports ErrUnsupported so the chain skips it.
type YTDLP struct{}

func NewYTDLP() *YTDLP {
	return &YTDLP{}
}

func (d *YTDLP) Name() string { return "yt-dlp" }

func (d *YTDLP) Supports(url string) bool {
	return youtubeURLRegex.MatchString(url)
}

func (d *YTDLP) Info(ctx context.Context, url string) (*Metadata, error) {
	return nil, ErrUnsupported
}

func (d *YTDLP) Download(ctx context.Context, url string, format Format, destPath string, progress ProgressFunc) error {
	dl := ytdlp.New().
		ForceOverwrites().
		Format(formatSelector(format)).
		Output(destPath)

	dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
		if progress != nil {
			progress(int64(update.DownloadedBytes), int64(update.TotalBytes))
		}
	})

	if _, err := dl.Run(ctx, url); err != nil {
		return fmt.Errorf("yt-dlp: %w", err)
	}
	return nil
}

// formatSelector maps the chosen format onto a yt-dlp -f expression.
// Progressive mp4 capped at the format's height keeps the output a single
// playable file without a muxing step.
func formatSelector(f Format) string {
	if f.Height > 0 {
		return fmt.Sprintf("best[ext=mp4][height<=%d]/best[height<=%d]/best", f.Height, f.Height)
	}
	return "best[ext=mp4]/best"
}
