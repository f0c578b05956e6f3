package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Downloader fetches a remote artifact.
type Downloader interface {
	Download(ctx context.Context, url string, w io.Writer) error
}

type httpDownloader struct {
	client *http.Client
}

// NewHTTPDownloader returns a Downloader backed by an HTTP client with the given timeout.
func NewHTTPDownloader(timeout time.Duration) Downloader {
	return &httpDownloader{client: &http.Client{Timeout: timeout}}
}

func (d *httpDownloader) Download(ctx context.Context, url string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("reading %s: %w", url, err)
	}
	return nil
}
