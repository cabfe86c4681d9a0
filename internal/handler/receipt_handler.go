package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mmynk/receipts/internal/middleware"
	"github.com/mmynk/receipts/internal/models"
	"github.com/mmynk/receipts/internal/render"
	"github.com/mmynk/receipts/internal/service"
)

type productRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

type paymentJSON struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

type CreateReceiptRequest struct {
	Payment  paymentJSON      `json:"payment"`
	Products []productRequest `json:"products"`
}

type productResponse struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type ReceiptResponse struct {
	ID        string            `json:"id"`
	Products  []productResponse `json:"products"`
	Payment   paymentJSON       `json:"payment"`
	Total     decimal.Decimal   `json:"total"`
	Rest      decimal.Decimal   `json:"rest"`
	CreatedAt time.Time         `json:"created_at"`
}

func toReceiptResponse(receipt *models.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		ID:        receipt.ID,
		Products:  make([]productResponse, len(receipt.Items)),
		Payment:   paymentJSON{Type: string(receipt.Type), Amount: receipt.Amount},
		Total:     receipt.Total,
		Rest:      receipt.Rest,
		CreatedAt: receipt.CreatedAt,
	}
	for i, item := range receipt.Items {
		resp.Products[i] = productResponse{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Total:    item.Total,
		}
	}
	return resp
}

// CreateReceipt handles POST /receipt/.
func (h *Handler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	var req CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CreateReceiptInput{
		Type:   req.Payment.Type,
		Amount: req.Payment.Amount,
		Items:  make([]service.ItemInput, len(req.Products)),
	}
	for i, p := range req.Products {
		input.Items[i] = service.ItemInput{Name: p.Name, Price: p.Price, Quantity: p.Quantity}
	}

	receipt, err := h.receipts.CreateReceipt(r.Context(), middleware.UserFromContext(r.Context()), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toReceiptResponse(receipt))
}

// MyReceipts handles GET /my_receipts/.
func (h *Handler) MyReceipts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := parseReceiptFilter(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, err := parsePage(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	receipts, err := h.receipts.ListReceipts(r.Context(), middleware.UserFromContext(r.Context()), filter, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]ReceiptResponse, len(receipts))
	for i, receipt := range receipts {
		resp[i] = toReceiptResponse(receipt)
	}
	writeJSON(w, http.StatusOK, resp)
}

// MyReceipt handles GET /my_receipts/{id}.
func (h *Handler) MyReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.receipts.GetOwnedReceipt(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toReceiptResponse(receipt))
}

// ReceiptText handles GET /receipt_text/{id}. The page is public.
func (h *Handler) ReceiptText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	width := render.DefaultWidth
	if raw := q.Get("chars_per_line"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeDetail(w, http.StatusBadRequest, "chars_per_line must be a positive integer")
			return
		}
		width = render.ClampWidth(n)
	}

	receipt, err := h.receipts.GetReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if q.Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(render.Text(receipt, width)))
		return
	}

	page, err := render.HTML(receipt, width)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseTime(field, raw string) (*time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be an ISO-8601 timestamp", models.ErrValidation, field)
}

func parseDecimal(field, raw string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", models.ErrValidation, field)
	}
	return &d, nil
}

// parseReceiptFilter reads the optional listing predicates from the query string.
// Timestamps without a zone are taken as UTC.
func parseReceiptFilter(q url.Values) (models.ReceiptFilter, error) {
	var (
		f   models.ReceiptFilter
		err error
	)

	if raw := q.Get("total__gt"); raw != "" {
		if f.TotalGT, err = parseDecimal("total__gt", raw); err != nil {
			return f, err
		}
	}
	if raw := q.Get("total__lt"); raw != "" {
		if f.TotalLT, err = parseDecimal("total__lt", raw); err != nil {
			return f, err
		}
	}
	if raw := q.Get("type"); raw != "" {
		t, err := models.ParsePaymentType(raw)
		if err != nil {
			return f, err
		}
		f.Type = &t
	}
	if raw := q.Get("created_at__gt"); raw != "" {
		if f.CreatedAtGT, err = parseTime("created_at__gt", raw); err != nil {
			return f, err
		}
	}
	if raw := q.Get("created_at__lt"); raw != "" {
		if f.CreatedAtLT, err = parseTime("created_at__lt", raw); err != nil {
			return f, err
		}
	}
	return f, nil
}

func parsePage(q url.Values) (models.Page, error) {
	page := models.DefaultPage()

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, fmt.Errorf("%w: limit must be an integer", models.ErrValidation)
		}
		page.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return page, fmt.Errorf("%w: offset must be an integer", models.ErrValidation)
		}
		page.Offset = n
	}
	return page, page.Validate()
}
