package endpoint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// ETagConfig configures ETag handling.
type ETagConfig struct {
	Weak bool // use weak ETags
}

// WithETag tags successful GET and HEAD responses with a hash of their
// encoded body and answers matching If-None-Match requests with 304.
func WithETag(cfg ...ETagConfig) Option {
	c := ETagConfig{}
	if len(cfg) > 0 {
		c = cfg[0]
	}
	return func(s *Service) {
		s.etag = &c
	}
}

func (c *ETagConfig) apply(r *http.Request, resp *Response) *Response {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return resp
	}
	if resp.Status < 200 || resp.Status >= 300 || resp.Status == http.StatusNoContent {
		return resp
	}

	hash := sha256.Sum256(resp.Body)
	etag := `"` + hex.EncodeToString(hash[:8]) + `"`
	if c.Weak {
		etag = "W/" + etag
	}
	resp.Header.Set("ETag", etag)

	if match := r.Header.Get("If-None-Match"); match != "" && (match == "*" || strings.Contains(match, etag)) {
		h := make(http.Header, 2)
		h.Set("ETag", etag)
		if cc := resp.Header.Get("Cache-Control"); cc != "" {
			h.Set("Cache-Control", cc)
		}
		return &Response{Status: http.StatusNotModified, Header: h}
	}
	return resp
}
