//go:build tesseract

// Package tesseract runs OCR in-process with Tesseract. It downloads the
// image behind the signed URL and hands the bytes to gosseract. Built only
// with the "tesseract" tag because it links against libtesseract.
package tesseract

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/otiai10/gosseract/v2"

	"idverify/internal/ocr"
)

const (
	providerID = "tesseract"
	// maxImageBytes bounds downloads; phone photos of ID cards stay well under this.
	maxImageBytes = 20 << 20
)

// Provider implements ocr.Provider with a local Tesseract engine.
type Provider struct {
	languages     []string
	httpClient    *http.Client
	clientFactory func() *gosseract.Client
}

type Option func(*Provider)

// WithLanguages sets the Tesseract language packs, e.g. "eng", "fil".
func WithLanguages(langs ...string) Option {
	return func(p *Provider) {
		if len(langs) > 0 {
			p.languages = langs
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

func New(opts ...Option) *Provider {
	p := &Provider{
		languages:     []string{"eng"},
		httpClient:    &http.Client{},
		clientFactory: gosseract.NewClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) ID() string { return providerID }

// Recognize downloads the image and extracts its text.
func (p *Provider) Recognize(ctx context.Context, imageURL string) (string, error) {
	img, err := p.fetch(ctx, imageURL)
	if err != nil {
		return "", err
	}

	// gosseract is not context-aware; run it aside so the caller's deadline still applies.
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := p.extract(img)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ocr.NewProviderError(ocr.ErrorTimeout, providerID, "recognition deadline exceeded", ctx.Err())
	case r := <-done:
		return r.text, r.err
	}
}

func (p *Provider) extract(img []byte) (string, error) {
	c := p.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(p.languages...); err != nil {
		return "", ocr.NewProviderError(ocr.ErrorInternal, providerID, "set languages", err)
	}
	if err := c.SetImageFromBytes(img); err != nil {
		return "", ocr.NewProviderError(ocr.ErrorBadData, providerID, "set image", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", ocr.NewProviderError(ocr.ErrorBadData, providerID, "extract text", err)
	}
	return text, nil
}

func (p *Provider) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, ocr.NewProviderError(ocr.ErrorInternal, providerID, "create image request", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ocr.NewProviderError(ocr.ErrorTimeout, providerID, "image download deadline exceeded", ctx.Err())
		}
		return nil, ocr.NewProviderError(ocr.ErrorStorage, providerID, "download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ocr.NewProviderError(ocr.ErrorStorage, providerID, fmt.Sprintf("image download status %d", resp.StatusCode), nil)
	}
	img, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, ocr.NewProviderError(ocr.ErrorStorage, providerID, "read image", err)
	}
	if len(img) == 0 {
		return nil, ocr.NewProviderError(ocr.ErrorBadData, providerID, "empty image", nil)
	}
	return img, nil
}
