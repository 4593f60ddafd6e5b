package imageref

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Prober checks whether an image source can be loaded.
type Prober struct {
	client *http.Client
}

// NewProber returns a Prober. A nil client gets a short-timeout default since
// a probe only decides between the image and its placeholder.
func NewProber(client *http.Client) *Prober {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Prober{client: client}
}

// Probe returns nil when src loads.
func (p *Prober) Probe(ctx context.Context, src string) error {
	u, err := url.Parse(src)
	if err != nil {
		return fmt.Errorf("parse image source: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "data":
		return nil
	case "file":
		info, err := os.Stat(u.Path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("image source %s is a directory", u.Path)
		}
		return nil
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, src, nil)
		if err != nil {
			return fmt.Errorf("create probe request: %w", err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("probe image: %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("probe image: unexpected status code: %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			return fmt.Errorf("probe image: unexpected content type %q", ct)
		}
		return nil
	default:
		return fmt.Errorf("cannot load image source with scheme %q", u.Scheme)
	}
}
