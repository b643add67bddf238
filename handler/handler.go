package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	models "order-management/model"
	"order-management/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc service.ServiceInterface
	log *slog.Logger
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: s, log: logger}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Customers
	r.HandleFunc("/customers", h.CreateCustomer).Methods("POST")

	// Products
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products/list", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{id}/stock", h.UpdateStock).Methods("PUT")
	r.HandleFunc("/products/{id}/stock", h.GetStock).Methods("GET")

	// Orders
	r.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
}

// --- request / response shapes ---
type createCustomerReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createProductReq struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type updateStockReq struct {
	Quantity *int `json:"quantity"`
}

type stockResp struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type orderResp struct {
	models.Order
	Total decimal.Decimal `json:"total"`
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceErr answers with the AppError's status, or 500 for anything
// the service did not classify.
func (h *Handler) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := service.IsAppError(err); ok {
		writeErr(w, appErr.StatusCode, appErr.Message)
		return
	}
	h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeErr(w, http.StatusInternalServerError, "internal server error")
}

// --- Handler ---

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateCustomer handles POST /customers
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	c, err := h.svc.CreateCustomer(r.Context(), req.Name, req.Email)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req.Name, req.Price, req.Quantity)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListProducts handles GET /products/list
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context())
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// UpdateStock handles PUT /products/{id}/stock
// body: { "quantity": 10 }
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req updateStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity == nil {
		writeErr(w, http.StatusBadRequest, "quantity required")
		return
	}
	if err := h.svc.UpdateStock(r.Context(), mux.Vars(r)["id"], *req.Quantity); err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStock handles GET /products/{id}/stock
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	qty, err := h.svc.GetStock(r.Context(), id)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stockResp{ProductID: id, Quantity: qty})
}

// CreateOrder handles POST /orders
// body: { "customer_id": "...", "products": [{ "id": "...", "quantity": 2 }] }
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResp{Order: o, Total: o.Total()})
}

// GetOrder handles GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResp{Order: o, Total: o.Total()})
}
