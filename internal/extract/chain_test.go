package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubExtractor struct {
	name        string
	supports    bool
	meta        *Metadata
	infoErr     error
	downloadErr error
	infoCalls   int
}

func (s *stubExtractor) Name() string             { return s.name }
func (s *stubExtractor) Supports(url string) bool { return s.supports }

func (s *stubExtractor) Info(ctx context.Context, url string) (*Metadata, error) {
	s.infoCalls++
	if s.infoErr != nil {
		return nil, s.infoErr
	}
	return s.meta, nil
}

func (s *stubExtractor) Download(ctx context.Context, url string, format Format, destPath string, progress ProgressFunc) error {
	return s.downloadErr
}

func TestChain_FallsThroughOnFailure(t *testing.T) {
	first := &stubExtractor{name: "first", supports: true, infoErr: errors.New("blocked")}
	second := &stubExtractor{name: "second", supports: true, meta: &Metadata{Title: "ok"}}
	chain := NewChain(first, second)

	md, err := chain.Info(context.Background(), "https://youtu.be/x")
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	if md.Title != "ok" {
		t.Errorf("Info() came from the wrong strategy: %+v", md)
	}
	if first.infoCalls != 1 {
		t.Errorf("first strategy was not attempted")
	}
}

func TestChain_SkipsUnsupported(t *testing.T) {
	skipped := &stubExtractor{name: "skipped", supports: false}
	unsup := &stubExtractor{name: "meta-less", supports: true, infoErr: ErrUnsupported}
	serving := &stubExtractor{name: "serving", supports: true, meta: &Metadata{Title: "ok"}}
	chain := NewChain(skipped, unsup, serving)

	md, err := chain.Info(context.Background(), "https://youtu.be/x")
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}
	if md.Title != "ok" {
		t.Errorf("unexpected metadata: %+v", md)
	}
	if skipped.infoCalls != 0 {
		t.Errorf("non-supporting strategy was consulted")
	}
}

func TestChain_ReportsLastError(t *testing.T) {
	first := &stubExtractor{name: "first", supports: true, infoErr: errors.New("boom one")}
	second := &stubExtractor{name: "second", supports: true, infoErr: errors.New("boom two")}
	chain := NewChain(first, second)

	_, err := chain.Info(context.Background(), "https://youtu.be/x")
	if err == nil {
		t.Fatal("Info() should fail when every strategy fails")
	}
	if !strings.Contains(err.Error(), "second") || !strings.Contains(err.Error(), "boom two") {
		t.Errorf("error %q does not name the last failing strategy", err)
	}
}

func TestChain_NoStrategySupportsURL(t *testing.T) {
	chain := NewChain(&stubExtractor{name: "yt", supports: false})

	if chain.Supports("ftp://nope") {
		t.Error("Supports() should be false with no matching strategy")
	}
	if _, err := chain.Info(context.Background(), "ftp://nope"); err == nil {
		t.Error("Info() should fail with no matching strategy")
	}
	if err := chain.Download(context.Background(), "ftp://nope", Format{}, "", nil); err == nil {
		t.Error("Download() should fail with no matching strategy")
	}
}

func TestChain_DownloadHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChain(&stubExtractor{name: "yt", supports: true})
	err := chain.Download(ctx, "https://youtu.be/x", Format{}, "", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Download() with cancelled context = %v, expected context.Canceled", err)
	}
}

func TestYouTube_Supports(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/abc123", true},
		{"https://vimeo.com/12345", false},
		{"not-a-url", false},
		{"", false},
	}

	y := NewYouTube()
	for _, test := range tests {
		if got := y.Supports(test.url); got != test.expected {
			t.Errorf("Supports(%q) = %v, expected %v", test.url, got, test.expected)
		}
	}
}
