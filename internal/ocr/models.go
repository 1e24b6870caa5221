// Package ocr turns stored document images into text. For every image it
// issues a short-lived signed URL and hands it to an external recognition
// provider; images are processed concurrently and fail independently.
package ocr

import (
	"context"
	"time"
)

// Slot identifies which side of the document an image shows.
type Slot string

const (
	SlotFront Slot = "front"
	SlotBack  Slot = "back"
)

func (s Slot) String() string { return string(s) }

// Image is one stored image to recognize.
type Image struct {
	Slot Slot
	Path string
}

// Outcome is the per-image result. Text is empty both when the provider found
// no text and when Err is set.
type Outcome struct {
	Slot     Slot
	Path     string
	Text     string
	Err      error
	Cached   bool
	Duration time.Duration
}

// Failed reports whether recognition of this image failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Signer issues time-limited read access to a stored object.
type Signer interface {
	SignedURL(ctx context.Context, bucket, path string, expiry time.Duration) (string, error)
}

// Provider extracts text from the image behind a URL. An image without text
// yields "", nil.
type Provider interface {
	ID() string
	Recognize(ctx context.Context, imageURL string) (string, error)
}

// Cache remembers recognized text per stored object. Implementations must
// treat their own failures as misses.
type Cache interface {
	Get(ctx context.Context, bucket, path string) (string, bool)
	Set(ctx context.Context, bucket, path, text string)
}
