package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookstore/internal/httpx"
	"bookstore/internal/platform/logger"
	"bookstore/internal/visitor"
)

// View is the JSON shape of a cart. Total is rounded to cents.
type View struct {
	Items    []Item      `json:"items"`
	Total    json.Number `json:"total"`
	Quantity int         `json:"quantity"`
}

func NewView(c Cart) View {
	items := c.Items
	if items == nil {
		items = []Item{}
	}
	return View{
		Items:    items,
		Total:    json.Number(c.Total().StringFixed(2)),
		Quantity: c.Quantity(),
	}
}

type HTTPHandler struct {
	service *Service
	logg    *logger.Logger
}

func NewHTTPHandler(service *Service, logg *logger.Logger) *HTTPHandler {
	if logg == nil {
		logg = logger.Nop()
	}
	return &HTTPHandler{service: service, logg: logg}
}

// Get handles GET /cart
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewView(c), nil)
}

// AddItem handles POST /cart/items
func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	var item Item
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&item); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	c, err := h.service.Add(r.Context(), sessionID, item)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewView(c), nil)
}

// RemoveItem handles DELETE /cart/items/{bookId}
func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	bookID, err := strconv.ParseInt(r.PathValue("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "bookId must be a positive integer", nil)
		return
	}
	c, err := h.service.Remove(r.Context(), sessionID, bookID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, NewView(c), nil)
}

// Clear handles DELETE /cart
func (h *HTTPHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.service.Clear(r.Context(), sessionID); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := visitor.SessionIDFrom(r.Context())
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "SESSION_REQUIRED", "Visitor session cookie required", nil)
		return "", false
	}
	return id, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]httpx.ErrorDetail, len(verr.Fields))
		for i, f := range verr.Fields {
			details[i] = httpx.ErrorDetail{Field: f.Field, Message: f.Message}
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid cart item", details)
	case errors.Is(err, ErrLockTimeout):
		h.logg.Warn(r.Context(), "cart lock wait timed out")
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "CART_BUSY", "Cart is busy, retry shortly", nil)
	default:
		h.logg.Error(r.Context(), "cart store failure", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
