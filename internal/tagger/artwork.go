package tagger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// maxArtworkSize caps a downloaded cover image
const maxArtworkSize = 10 << 20

// Artwork is a downloaded cover image
type Artwork struct {
	Data     []byte
	MimeType string
}

// ArtworkFetcher downloads cover art and caches results to avoid repeated
// downloads of the same URL.
type ArtworkFetcher struct {
	mu     sync.Mutex
	cache  map[string]*Artwork
	client *http.Client
}

// NewArtworkFetcher creates a fetcher. A nil client gets a 10 second timeout.
func NewArtworkFetcher(client *http.Client) *ArtworkFetcher {
	if client == nil {
		client = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	return &ArtworkFetcher{
		cache:  make(map[string]*Artwork),
		client: client,
	}
}

// Fetch downloads the image at url
func (f *ArtworkFetcher) Fetch(ctx context.Context, url string) (*Artwork, error) {
	f.mu.Lock()
	if art, ok := f.cache[url]; ok {
		f.mu.Unlock()
		return art, nil
	}
	f.mu.Unlock()

	art, err := f.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[url] = art
	f.mu.Unlock()

	return art, nil
}

func (f *ArtworkFetcher) fetch(ctx context.Context, url string) (*Artwork, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create artwork request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download artwork: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("artwork is empty")
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("artwork is not an image: %s", mimeType)
	}

	return &Artwork{Data: data, MimeType: mimeType}, nil
}
