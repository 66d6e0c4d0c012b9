package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/store-ledger/api-contract"
	"github.com/tuanvumaihuynh/store-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/http/apierr"
	"github.com/tuanvumaihuynh/store-ledger/internal/http/middleware"
	"github.com/tuanvumaihuynh/store-ledger/internal/http/swagger"
	"github.com/tuanvumaihuynh/store-ledger/internal/metric"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	metrics  *metric.Metrics
	gatherer prometheus.Gatherer

	productSvc service.ProductService
	saleSvc    service.SaleService
	store      repository.Store
}

type CleanupFunc func(ctx context.Context) error

type Option func(*Service)

// WithGatherer sets the gatherer served on the metrics path.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Service) {
		s.gatherer = gatherer
	}
}

func New(
	cfg config.HTTP,
	log *slog.Logger,
	metrics *metric.Metrics,
	productSvc service.ProductService,
	saleSvc service.SaleService,
	store repository.Store,
	opts ...Option,
) *Service {
	s := &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		metrics:    metrics,
		gatherer:   prometheus.DefaultGatherer,
		productSvc: productSvc,
		saleSvc:    saleSvc,
		store:      store,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler()
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router serving every route of the service.
func (s *Service) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	if err := s.RegisterHandlers(r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Trace(tracer, middleware.MetricsPath, "/healthz", swagger.URL, swagger.SpecURL),
		middleware.Recoverer(s.logger),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) error {
	h := s.newHandler()

	var validate func(http.Handler) http.Handler
	if s.cfg.OpenAPIValidation {
		doc, err := apicontract.LoadSpec()
		if err != nil {
			return fmt.Errorf("load api contract: %w", err)
		}

		validate, err = middleware.OpenAPIValidator(doc, s.handleRequestError)
		if err != nil {
			return fmt.Errorf("create openapi validator: %w", err)
		}
	}

	r.Group(func(r chi.Router) {
		if validate != nil {
			r.Use(validate)
		}

		r.Get("/products", s.handle(h.ListProducts))
		r.Post("/products", s.handle(h.AddProduct))
		r.Get("/sales", s.handle(h.ListSales))
		r.Post("/sales", s.handle(h.RecordSale))
	})

	r.Get("/healthz", h.Health)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	return nil
}

// handlerFunc is an http handler reporting failures as an error.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			var reqErr requestError
			if errors.As(err, &reqErr) {
				s.handleRequestError(w, r, reqErr.err)
				return
			}
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	err = apperr.ValidationErr.WrapParent(err)
	res := apierr.New(err)

	s.logger.WarnContext(r.Context(), "http request error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.WarnContext(r.Context(), "error encoding error request",
			slog.Any("error", err))
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

type handler struct {
	*productHandler
	*saleHandler
	*healthHandler
}

func (s *Service) newHandler() *handler {
	return &handler{
		productHandler: newProductHandler(s.productSvc),
		saleHandler:    newSaleHandler(s.saleSvc),
		healthHandler:  newHealthHandler(s.store, s.logger),
	}
}

// requestError marks a malformed request body.
type requestError struct {
	err error
}

func (e requestError) Error() string {
	return e.err.Error()
}

func (e requestError) Unwrap() error {
	return e.err
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return requestError{err: fmt.Errorf("decode request body: %w", err)}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}
