package ocr

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"idverify/internal/ocr/metrics"
	"idverify/pkg/requestcontext"
)

const (
	// DefaultTimeout bounds signing plus recognition of one image.
	DefaultTimeout = 15 * time.Second
	// DefaultURLExpiry is the lifetime of the signed read URL handed to the provider.
	DefaultURLExpiry = 60 * time.Second
)

// Gateway fans OCR out over the images of one request.
type Gateway struct {
	signer    Signer
	provider  Provider
	cache     Cache
	timeout   time.Duration
	urlExpiry time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Gateway)

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithURLExpiry(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.urlExpiry = d
		}
	}
}

func WithCache(c Cache) Option {
	return func(g *Gateway) {
		g.cache = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// NewGateway constructs a Gateway.
func NewGateway(signer Signer, provider Provider, opts ...Option) *Gateway {
	g := &Gateway{
		signer:    signer,
		provider:  provider,
		timeout:   DefaultTimeout,
		urlExpiry: DefaultURLExpiry,
		logger:    slog.Default(),
		tracer:    otel.Tracer("idverify/ocr"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Recognize runs OCR for every image concurrently and returns one Outcome per
// image, in input order. A failing image is reported in its Outcome and never
// cancels the others. The only error returned is the parent context's: when
// the caller goes away, partial outcomes are discarded.
func (g *Gateway) Recognize(ctx context.Context, bucket string, images []Image) ([]Outcome, error) {
	outcomes := make([]Outcome, len(images))

	// Goroutines never return an error, so the group never cancels siblings.
	var group errgroup.Group
	for i, img := range images {
		group.Go(func() error {
			outcomes[i] = g.recognizeOne(ctx, bucket, img)
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (g *Gateway) recognizeOne(parent context.Context, bucket string, img Image) Outcome {
	start := time.Now()
	out := Outcome{Slot: img.Slot, Path: img.Path}

	ctx, span := g.tracer.Start(parent, "ocr.recognize",
		trace.WithAttributes(
			attribute.String("ocr.slot", img.Slot.String()),
			attribute.String("ocr.provider", g.provider.ID()),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.cache != nil {
		text, ok := g.cache.Get(ctx, bucket, img.Path)
		g.metrics.RecordCacheLookup(ok)
		if ok {
			out.Text = text
			out.Cached = true
			out.Duration = time.Since(start)
			g.metrics.ObserveImage(img.Slot.String(), "cached", out.Duration)
			return out
		}
	}

	text, err := g.signAndRecognize(ctx, bucket, img)
	out.Duration = time.Since(start)
	if err != nil {
		out.Err = err
		category := GetCategory(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(category))
		g.metrics.IncrementFailure(string(category))
		g.metrics.ObserveImage(img.Slot.String(), "failed", out.Duration)
		g.logger.WarnContext(parent, "ocr image failed",
			"request_id", requestcontext.RequestID(parent),
			"slot", img.Slot,
			"category", category,
			"duration_ms", out.Duration.Milliseconds(),
			"error", err,
		)
		return out
	}

	out.Text = text
	g.metrics.ObserveImage(img.Slot.String(), "ok", out.Duration)
	if g.cache != nil {
		g.cache.Set(ctx, bucket, img.Path, text)
	}
	g.logger.DebugContext(parent, "ocr image recognized",
		"request_id", requestcontext.RequestID(parent),
		"slot", img.Slot,
		"chars", len(text),
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out
}

func (g *Gateway) signAndRecognize(ctx context.Context, bucket string, img Image) (string, error) {
	url, err := g.signer.SignedURL(ctx, bucket, img.Path, g.urlExpiry)
	if err != nil {
		return "", &ImageError{Slot: img.Slot, Path: img.Path, Stage: StageSign, Err: err}
	}

	text, err := g.provider.Recognize(ctx, url)
	if err != nil {
		return "", &ImageError{Slot: img.Slot, Path: img.Path, Stage: StageRecognize, Err: err}
	}
	return text, nil
}
