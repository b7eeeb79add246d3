package branding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"slices"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// ErrAssetTooLarge is returned when asset exceeds configured size.
var ErrAssetTooLarge = errors.New("asset is too large")

const octetStream = "application/octet-stream"

// Asset is a downloaded branding image.
type Asset struct {
	Data []byte
	MIME string
}

// FetchAsset downloads image referenced by branding so it could be previewed
// or stored with design. When server does not say what it returned, content
// is sniffed.
func (c *Client) FetchAsset(ctx context.Context, link string) (*Asset, error) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("asset location '%s' must be absolute http(s) url", link)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare asset request: %w", err)
	}
	c.setBaseHeaders(req)
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/svg+xml,image/*;q=0.8,*/*;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("asset request failed: %s", resp.Status)
	}

	limit := c.cfg.MaxAssetSize
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrAssetTooLarge, resp.ContentLength)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read asset: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrAssetTooLarge, limit)
	}

	a := &Asset{Data: data, MIME: mediaType(resp.Header.Get("Content-Type"))}
	if a.MIME == "" || a.MIME == octetStream {
		a.MIME = sniff(data)
	}
	c.log.Debug("Asset fetched", zap.String("url", link), zap.String("mime", a.MIME), zap.Int("size", len(data)))
	return a, nil
}

// Extension returns file extension (with dot) for asset content, falling
// back to the one from link.
func (a *Asset) Extension(link string) string {
	exts := make([]string, 0, 1)
	for ext, t := range filetype.Types {
		if t.MIME.Value == a.MIME {
			exts = append(exts, ext)
		}
	}
	if len(exts) > 0 {
		slices.Sort(exts)
		return "." + exts[0]
	}
	if u, err := url.Parse(link); err == nil {
		return path.Ext(u.Path)
	}
	return ""
}

func mediaType(header string) string {
	if header == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mt
}

func sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown && kind.MIME.Value != "" {
		return kind.MIME.Value
	}
	return octetStream
}

func originOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
