package http

import (
	"context"
	"encoding/json"
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

	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/dashboard"
	"github.com/tuanvumaihuynh/stockdesk/internal/http/apierr"
	"github.com/tuanvumaihuynh/stockdesk/internal/http/metric"
	"github.com/tuanvumaihuynh/stockdesk/internal/http/middleware"
	"github.com/tuanvumaihuynh/stockdesk/internal/http/swagger"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
	"github.com/tuanvumaihuynh/stockdesk/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// OrderBoard is the order list state served by the API.
type OrderBoard interface {
	OrderView() dashboard.OrderView
	Reload(ctx context.Context) error
	Search(query string)
	FlushSearch()
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error)
	RequestDelete(id string) (dashboard.Confirmation, error)
	Browse(id string) (*dashboard.Browser, error)
}

// StockBoard is the stock list state served by the API.
type StockBoard interface {
	View() dashboard.View[model.Stock]
	Reload(ctx context.Context) error
	Search(query string)
	FlushSearch()
	LowStock() []model.Stock
	RequestDelete(id string) (dashboard.Confirmation, error)
}

// Confirmations resolves pending delete confirmations.
type Confirmations interface {
	Get(token string) (dashboard.Confirmation, bool)
	Confirm(ctx context.Context, token string) error
	Cancel(token string) error
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *metric.Metrics
	validator validator.Validator

	orders        OrderBoard
	stocks        StockBoard
	confirmations Confirmations
	health        HealthChecker
}

type CleanupFunc func(ctx context.Context) error

// New creates the HTTP service. health may be nil when the process has no
// database to check.
func New(
	cfg config.HTTP,
	log *slog.Logger,
	v validator.Validator,
	orders OrderBoard,
	stocks StockBoard,
	confirmations Confirmations,
	health HealthChecker,
) *Service {
	registry := prometheus.NewRegistry()

	return &Service{
		cfg:           cfg,
		logger:        log.With(slog.String("service", "http")),
		registry:      registry,
		metrics:       metric.New(registry),
		validator:     v,
		orders:        orders,
		stocks:        stocks,
		confirmations: confirmations,
		health:        health,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

// Handler returns the fully wired router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.ErrorContext(ctx, "http server stopped unexpectedly", slog.Any("error", err))
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
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	orders := newOrderHandler(s.orders, s.validator)
	stocks := newStockHandler(s.stocks, s.validator)
	confirmations := newConfirmationHandler(s.confirmations)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.handle(orders.ListOrders))
			r.Post("/reload", s.handle(orders.ReloadOrders))
			r.Put("/search", s.handle(orders.SearchOrders))
			r.Put("/{id}/status", s.handle(orders.UpdateOrderStatus))
			r.Post("/{id}/delete", s.handle(orders.RequestOrderDelete))
			r.Get("/{id}/browse", s.handle(orders.BrowseOrder))
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", s.handle(stocks.ListStocks))
			r.Post("/reload", s.handle(stocks.ReloadStocks))
			r.Put("/search", s.handle(stocks.SearchStocks))
			r.Get("/low", s.handle(stocks.ListLowStocks))
			r.Post("/{id}/delete", s.handle(stocks.RequestStockDelete))
		})

		r.Route("/confirmations/{token}", func(r chi.Router) {
			r.Get("/", s.handle(confirmations.GetConfirmation))
			r.Post("/confirm", s.handle(confirmations.Confirm))
			r.Delete("/", s.handle(confirmations.Cancel))
		})
	})

	r.Get(middleware.HealthPath, s.handle(s.healthz))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
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

func (s *Service) healthz(w http.ResponseWriter, r *http.Request) error {
	if s.health != nil {
		ok, err := s.health.IsHealthy(r.Context())
		if err != nil || !ok {
			s.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
			return writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		}
	}

	return writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
