package quote

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// contains http utils to deal with remote services

// maxBody caps how much of a response is read. Quote pages are small.
const maxBody = 4 << 20

// diskCache implements a simple disk cache for HTTP responses.
//
// Entries are keyed by the current ttl-wide time bucket, so they expire when
// the bucket changes.
type diskCache struct {
	base http.RoundTripper
	dir  string
	ttl  time.Duration
	now  func() time.Time
	log  zerolog.Logger
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	if req.Method != http.MethodGet {
		return c.base.RoundTrip(req)
	}
	bucket := c.now().Truncate(c.ttl).Unix()
	key := fmt.Sprintf("%d %s %s", bucket, req.Method, req.URL.String())
	key = fmt.Sprintf("stockcard-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Int("status", resp.StatusCode).Msg("fetched")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		c.log.Warn().Err(err).Msg("cache write err (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o644)
}

// NewCachingClient returns an http.Client whose GET responses are cached in
// dir (os.TempDir() when empty) for up to ttl.
func NewCachingClient(ttl time.Duration, dir string, log zerolog.Logger) *http.Client {
	if ttl <= 0 {
		return &http.Client{Timeout: 10 * time.Second}
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &diskCache{
			base: http.DefaultTransport,
			dir:  dir,
			ttl:  ttl,
			now:  time.Now,
			log:  log.With().Str("component", "http-cache").Logger(),
		},
	}
}

// fetch performs an HTTP GET with the given headers and returns the body.
func fetch(ctx context.Context, client *http.Client, addr string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// jwget performs an HTTP GET request and unmarshals the JSON response into
// data. Numbers are kept as json.Number to preserve their text.
func jwget(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	body, err := fetch(ctx, client, addr, header)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	return dec.Decode(data)
}
