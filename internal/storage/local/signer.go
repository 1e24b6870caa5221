// Package local serves identity images from a directory on disk behind
// HMAC-signed, expiring URLs. Meant for development and tests where no
// object store is available.
package local

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrExpired          = errors.New("signed url expired")
)

// Signer implements ocr.Signer for files served by Handler.
type Signer struct {
	baseURL string
	secret  []byte
	now     func() time.Time
}

type Option func(*Signer)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSigner builds a signer for URLs rooted at baseURL, e.g. "http://localhost:8080".
func NewSigner(baseURL, secret string, opts ...Option) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("local storage signing secret is required")
	}
	s := &Signer{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SignedURL returns {base}/files/{bucket}/{path}?exp=..&sig=..
func (s *Signer) SignedURL(_ context.Context, bucket, path string, expiry time.Duration) (string, error) {
	key := strings.TrimPrefix(path, "/")
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and object path are required")
	}
	exp := s.now().Add(expiry).Unix()

	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", s.sign(bucket, key, exp))

	return fmt.Sprintf("%s/files/%s/%s?%s", s.baseURL, url.PathEscape(bucket), escapePath(key), q.Encode()), nil
}

// Verify checks a signature produced by SignedURL.
func (s *Signer) Verify(bucket, key, expParam, sig string) error {
	exp, err := strconv.ParseInt(expParam, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	expected := s.sign(bucket, key, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrInvalidSignature
	}
	if s.now().Unix() > exp {
		return ErrExpired
	}
	return nil
}

func (s *Signer) sign(bucket, key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", bucket, key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func escapePath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
