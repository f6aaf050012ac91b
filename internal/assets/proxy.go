// Package assets proxies product images from allowed hosts and caches the
// bytes, resized on request.
package assets

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/UTarts/cardiff-healthcare/internal/media"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/httpclient"
)

// MaxSourceBytes bounds an upstream image.
const MaxSourceBytes = 10 << 20

var cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "asset_cache_requests_total",
	Help: "Image proxy lookups by cache result.",
}, []string{"result"})

// Asset is a cached image.
type Asset struct {
	ContentType string
	Data        []byte
}

// encode packs the content type and bytes into one cache value.
func (a *Asset) encode() []byte {
	out := make([]byte, 0, len(a.ContentType)+1+len(a.Data))
	out = append(out, a.ContentType...)
	out = append(out, 0)
	return append(out, a.Data...)
}

func decodeAsset(b []byte) (*Asset, bool) {
	i := bytes.IndexByte(b, 0)
	if i <= 0 {
		return nil, false
	}
	return &Asset{ContentType: string(b[:i]), Data: b[i+1:]}, true
}

// Proxy fetches images through doer and caches them.
type Proxy struct {
	doer    httpclient.Doer
	cache   Cache
	allowed []string
	logger  *slog.Logger
}

// NewProxy creates a proxy accepting sources on allowedHosts or their
// subdomains.
func NewProxy(doer httpclient.Doer, cache Cache, allowedHosts []string, logger *slog.Logger) *Proxy {
	hosts := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	return &Proxy{doer: doer, cache: cache, allowed: hosts, logger: logger}
}

func (p *Proxy) hostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, h := range p.allowed {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func cacheKey(src string, size media.Size) string {
	sum := sha256.Sum256([]byte(string(size) + "|" + src))
	return hex.EncodeToString(sum[:])
}

// Get returns the image at src in size, from cache when possible.
func (p *Proxy) Get(ctx context.Context, src string, size media.Size) (*Asset, error) {
	u, err := url.Parse(src)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, apperrors.InvalidInput("src must be an absolute http(s) url")
	}
	if !p.hostAllowed(u.Hostname()) {
		return nil, apperrors.Forbidden(fmt.Sprintf("host %s is not allowed", u.Hostname()))
	}

	key := cacheKey(src, size)
	if cached, ok, err := p.cache.Get(ctx, key); err != nil {
		p.logger.WarnContext(ctx, "asset cache read failed", slog.String("error", err.Error()))
	} else if ok {
		if a, ok := decodeAsset(cached); ok {
			cacheRequests.WithLabelValues("hit").Inc()
			return a, nil
		}
	}
	cacheRequests.WithLabelValues("miss").Inc()

	asset, err := p.fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	if preset, ok := media.PresetFor(size); ok {
		data, err := media.Optimize(asset.Data, preset)
		if err != nil {
			return nil, apperrors.InvalidInput("source is not a decodable image")
		}
		asset = &Asset{ContentType: "image/jpeg", Data: data}
	}

	if err := p.cache.Set(ctx, key, asset.encode()); err != nil {
		p.logger.WarnContext(ctx, "asset cache write failed", slog.String("error", err.Error()))
	}
	return asset, nil
}

func (p *Proxy) fetch(ctx context.Context, src string) (*Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build asset request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.doer.Do(ctx, req)
	if err != nil {
		return nil, httpclient.TransportError(err, "assets")
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		return nil, httpclient.ParseResponseError(resp, "assets")
	}
	defer func() { _ = resp.Body.Close() }()

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.InvalidInput(fmt.Sprintf("source is %q, not an image", contentType))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	if len(data) > MaxSourceBytes {
		return nil, apperrors.InvalidInput("source image is too large")
	}
	return &Asset{ContentType: contentType, Data: data}, nil
}
