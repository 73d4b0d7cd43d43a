package resolver

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ObjectHeader resolves the content type of an object-store key. Satisfied by
// the S3 media source.
type ObjectHeader interface {
	Head(ctx context.Context, key string) (string, error)
}

// Prober resolves locator content types: local paths by extension lookup with
// a content-sniff fallback, http(s) locators with a HEAD request, s3 locators
// through the object store. Network probes can be slow and must therefore run
// on the background pool, never the session loop.
type Prober struct {
	client *http.Client
	heads  ObjectHeader
}

// NewProber constructs a prober. client falls back to http.DefaultClient;
// heads may be nil when no object store is configured.
func NewProber(client *http.Client, heads ObjectHeader) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	return &Prober{client: client, heads: heads}
}

// Probe determines the mime type of the locator, or returns an error when it
// cannot. Probes are single-shot with no retry.
func (p *Prober) Probe(ctx context.Context, locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return p.probeLocal(locator)
	}

	switch u.Scheme {
	case "http", "https":
		return p.probeRemote(ctx, locator)
	case "s3":
		if p.heads == nil {
			return "", ErrProberUnavailable
		}
		return p.heads.Head(ctx, strings.TrimPrefix(u.Path, "/"))
	case "file":
		return p.probeLocal(u.Path)
	default:
		return p.probeLocal(locator)
	}
}

func (p *Prober) probeLocal(path string) (string, error) {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
			return parsed, nil
		}
	}

	sniffed, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("sniff %s: %w", path, err)
	}
	return sniffed.String(), nil
}

func (p *Prober) probeRemote(ctx context.Context, locator string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, locator, nil)
	if err != nil {
		return "", fmt.Errorf("build probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("probe %s: unexpected status %d", locator, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return "", fmt.Errorf("probe %s: no content type", locator)
	}
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("probe %s: parse content type: %w", locator, err)
	}
	return parsed, nil
}
