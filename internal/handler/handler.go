package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/receipts/internal/auth"
	"github.com/mmynk/receipts/internal/middleware"
	"github.com/mmynk/receipts/internal/models"
	"github.com/mmynk/receipts/internal/service"
)

const compressLevel = 5

type Handler struct {
	router   *chi.Mux
	auth     *service.AuthService
	receipts *service.ReceiptService
	metrics  *middleware.Metrics
	logger   *slog.Logger
}

func NewHandler(authSvc *service.AuthService, receiptSvc *service.ReceiptService, metrics *middleware.Metrics, logger *slog.Logger) *Handler {
	router := chi.NewRouter()

	compressor := chimw.NewCompressor(compressLevel, "text/html", "text/plain", "application/json")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})

	// Middleware
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(metrics.Middleware)
	router.Use(chimw.Recoverer)
	router.Use(compressor.Handler)

	h := &Handler{
		router:   router,
		auth:     authSvc,
		receipts: receiptSvc,
		metrics:  metrics,
		logger:   logger,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Get("/health", h.HealthCheck)
	h.router.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	h.router.Post("/registration/", h.Register)
	h.router.Get("/authorize/", h.Authorize)
	h.router.Get("/receipt_text/{id}", h.ReceiptText)

	h.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.auth))
		r.Post("/receipt/", h.CreateReceipt)
		r.Get("/my_receipts/", h.MyReceipts)
		r.Get("/my_receipts/{id}", h.MyReceipt)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.receipts.Ping(r.Context()); err != nil {
		h.logger.Error("Health check failed", "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps domain errors to a status code and a {"detail": ...} body.
// Anything unrecognised is logged and reported as a bare 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrLoginExists):
		writeDetail(w, http.StatusBadRequest, "User with this login already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeDetail(w, http.StatusBadRequest, "Your login or password is incorrect")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Receipt with this id doesn't exist")
	case errors.Is(err, models.ErrValidation):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}
