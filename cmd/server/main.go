package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	jwttoken "idverify/internal/jwt_token"
	"idverify/internal/ocr"
	ocrcache "idverify/internal/ocr/cache"
	"idverify/internal/ocr/httpprovider"
	ocrmetrics "idverify/internal/ocr/metrics"
	"idverify/internal/platform/config"
	"idverify/internal/platform/httpserver"
	"idverify/internal/platform/logger"
	"idverify/internal/platform/metrics"
	"idverify/internal/platform/postgres"
	"idverify/internal/platform/redis"
	"idverify/internal/storage/local"
	"idverify/internal/storage/s3"
	httptransport "idverify/internal/transport/http"
	"idverify/internal/verification/classifier"
	"idverify/internal/verification/handler"
	vmetrics "idverify/internal/verification/metrics"
	"idverify/internal/verification/notify"
	"idverify/internal/verification/ports"
	"idverify/internal/verification/service"
	resultmemory "idverify/internal/verification/store/memory"
	resultpostgres "idverify/internal/verification/store/postgres"
	audit "idverify/pkg/platform/audit"
	auditpublisher "idverify/pkg/platform/audit/publisher"
	auditmemory "idverify/pkg/platform/audit/store/memory"
	auditpostgres "idverify/pkg/platform/audit/store/postgres"
	txcontext "idverify/pkg/platform/tx"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

type app struct {
	cfg     config.Server
	log     *slog.Logger
	public  []httptransport.Registrar
	checks  map[string]httptransport.HealthCheck
	closers []func()
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, log: log, checks: map[string]httptransport.HealthCheck{}}
	defer a.close()

	svc, err := a.buildService(ctx)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:    log,
		Metrics:   metrics.New(),
		Validator: jwttoken.NewJWTServiceAdapter(jwtService),
		Public:    a.public,
		Protected: []httptransport.Registrar{handler.New(svc, log)},
		Checks:    a.checks,
	})

	srv := httpserver.New(cfg.Addr, router, cfg.OCR.Timeout)
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting idverify", "addr", cfg.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func (a *app) buildService(ctx context.Context) (*service.Service, error) {
	table, err := a.keywordTable()
	if err != nil {
		return nil, err
	}

	gateway, err := a.buildGateway(ctx)
	if err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithLogger(a.log),
		service.WithMetrics(vmetrics.New()),
	}

	storeOpts, err := a.buildStores(ctx)
	if err != nil {
		return nil, err
	}
	opts = append(opts, storeOpts...)

	notifier, err := a.buildNotifier(ctx)
	if err != nil {
		return nil, err
	}
	if notifier != nil {
		opts = append(opts, service.WithNotifier(notifier))
	}

	return service.New(gateway, classifier.New(table), opts...), nil
}

func (a *app) keywordTable() (classifier.KeywordTable, error) {
	if a.cfg.DocKeywordsFile == "" {
		return classifier.DefaultTable(), nil
	}
	table, err := classifier.LoadTable(a.cfg.DocKeywordsFile)
	if err != nil {
		return nil, fmt.Errorf("load keyword table: %w", err)
	}
	a.log.Info("loaded keyword table", "path", a.cfg.DocKeywordsFile, "doc_types", len(table.Keys()))
	return table, nil
}

func (a *app) buildGateway(ctx context.Context) (*ocr.Gateway, error) {
	signer, err := a.buildSigner(ctx)
	if err != nil {
		return nil, err
	}

	var provider ocr.Provider
	switch a.cfg.OCR.Provider {
	case config.OCRProviderTesseract:
		provider, err = newTesseractProvider(a.cfg.OCR)
		if err != nil {
			return nil, err
		}
	default:
		provider = httpprovider.New(httpprovider.Config{
			Endpoint:      a.cfg.OCR.Endpoint,
			APIKey:        a.cfg.OCR.APIKey,
			RatePerSecond: a.cfg.OCR.RatePerSecond,
			Burst:         a.cfg.OCR.Burst,
		}, httpprovider.WithLogger(a.log))
	}

	opts := []ocr.Option{
		ocr.WithTimeout(a.cfg.OCR.Timeout),
		ocr.WithURLExpiry(a.cfg.OCR.URLExpiry),
		ocr.WithLogger(a.log),
		ocr.WithMetrics(ocrmetrics.New()),
	}

	rdb, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		a.checks["redis"] = rdb.Health
		opts = append(opts, ocr.WithCache(ocrcache.NewRedis(rdb.Client,
			ocrcache.WithTTL(a.cfg.OCR.CacheTTL),
			ocrcache.WithLogger(a.log),
		)))
	}

	return ocr.NewGateway(signer, provider, opts...), nil
}

func (a *app) buildSigner(ctx context.Context) (ocr.Signer, error) {
	st := a.cfg.Storage
	if st.Backend == config.StorageS3 {
		signer, err := s3.New(ctx, s3.Config{
			Region:          st.Region,
			Endpoint:        st.Endpoint,
			AccessKeyID:     st.AccessKeyID,
			SecretAccessKey: st.SecretAccessKey,
			UsePathStyle:    st.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 signer: %w", err)
		}
		return signer, nil
	}

	signer, err := local.NewSigner(st.LocalBaseURL, st.LocalSecret)
	if err != nil {
		return nil, fmt.Errorf("init local signer: %w", err)
	}
	a.public = append(a.public, local.NewHandler(st.LocalRoot, signer, a.log))
	a.log.Warn("serving document images from local disk", "root", st.LocalRoot)
	return signer, nil
}

func (a *app) buildStores(ctx context.Context) ([]service.Option, error) {
	db, err := postgres.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var (
		results    ports.ResultStore
		auditStore audit.Store
		tx         ports.TxRunner = txcontext.NoopRunner{}
	)
	if db != nil {
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		a.checks["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
		results = resultpostgres.NewPostgres(db)
		auditStore = auditpostgres.New(db)
		tx = txcontext.NewSQLRunner(db)
	} else {
		a.log.Warn("DATABASE_URL not set, verification results and audit events are kept in memory")
		results = resultmemory.NewInMemory()
		auditStore = auditmemory.NewInMemoryStore()
	}

	pubOpts := []auditpublisher.Option{auditpublisher.WithLogger(a.log)}
	if a.cfg.Audit.BufferSize > 0 {
		pubOpts = append(pubOpts, auditpublisher.WithAsyncBuffer(a.cfg.Audit.BufferSize))
	}
	publisher := auditpublisher.NewPublisher(auditStore, pubOpts...)
	a.closers = append(a.closers, publisher.Close)

	return []service.Option{
		service.WithResultStore(results),
		service.WithAuditPublisher(publisher),
		service.WithTxRunner(tx),
	}, nil
}

func (a *app) buildNotifier(ctx context.Context) (ports.Notifier, error) {
	if len(a.cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	client, err := notify.NewClient(a.cfg.Kafka.Brokers, a.cfg.Kafka.ClientID)
	if err != nil {
		return nil, fmt.Errorf("init kafka client: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.checks["kafka"] = func(ctx context.Context) error { return client.Ping(ctx) }
	if err := notify.EnsureTopic(ctx, client, notify.TopicSpec{
		Name:              a.cfg.Kafka.Topic,
		Partitions:        a.cfg.Kafka.Partitions,
		ReplicationFactor: a.cfg.Kafka.ReplicationFactor,
	}); err != nil {
		a.log.Warn("could not ensure kafka topic", "topic", a.cfg.Kafka.Topic, "error", err)
	}
	return notify.NewKafka(client, notify.WithTopic(a.cfg.Kafka.Topic)), nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
