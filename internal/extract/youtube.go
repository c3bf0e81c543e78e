package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var youtubeURLRegex = regexp.MustCompile(`(?i)^https?://(www\.|m\.)?(youtube\.com/(watch\?|shorts/|embed/)|youtu\.be/)`)

// YouTube extracts metadata and streams directly via the kkdai client.
type YouTube struct {
	client youtube.Client
}

func NewYouTube() *YouTube {
	return &YouTube{}
}

func (y *YouTube) Name() string { return "youtube" }

func (y *YouTube) Supports(url string) bool {
	return youtubeURLRegex.MatchString(url)
}

func (y *YouTube) Info(ctx context.Context, url string) (*Metadata, error) {
	video, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("video info error: %s", translateError(err))
	}

	md := &Metadata{
		Title:       video.Title,
		Description: video.Description,
	}
	if len(video.Thumbnails) > 0 {
		// Thumbnails come smallest first; the last one is the sharpest.
		md.Thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}
	for _, f := range video.Formats {
		md.Formats = append(md.Formats, convertFormat(f))
	}
	return md, nil
}

func (y *YouTube) Download(ctx context.Context, url string, format Format, destPath string, progress ProgressFunc) error {
	video, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return fmt.Errorf("video info error: %s", translateError(err))
	}

	var chosen *youtube.Format
	for i := range video.Formats {
		if video.Formats[i].ItagNo == format.Itag {
			chosen = &video.Formats[i]
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("format %d is no longer offered upstream", format.Itag)
	}

	stream, size, err := y.client.GetStreamContext(ctx, video, chosen)
	if err != nil {
		return fmt.Errorf("stream error: %s", translateError(err))
	}
	defer stream.Close()

	if size <= 0 {
		size = format.ContentLength
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var received int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := stream.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return werr
			}
			received += int64(n)
			if progress != nil {
				progress(received, size)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("stream read: %s", translateError(err))
		}
	}
}

func convertFormat(f youtube.Format) Format {
	return Format{
		Itag:          f.ItagNo,
		QualityLabel:  f.QualityLabel,
		Height:        f.Height,
		MimeType:      f.MimeType,
		HasVideo:      strings.HasPrefix(f.MimeType, "video/"),
		HasAudio:      f.AudioChannels > 0,
		ContentLength: f.ContentLength,
	}
}

// translateError swaps YouTube's more cryptic failures for something a
// client can act on; everything else passes through untouched.
func translateError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "cipher") || strings.Contains(msg, "signature"):
		return "YouTube restricted access to this video (cipher/signature error)"
	case strings.Contains(msg, "403"):
		return "access forbidden, YouTube may be throttling the server IP"
	case strings.Contains(msg, "no space left"):
		return "disk space exhausted, cannot complete download"
	default:
		return msg
	}
}
