package cart

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookstore/internal/visitor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Items []struct {
			BookID   int64   `json:"bookId"`
			Price    float64 `json:"price"`
			Quantity int     `json:"quantity"`
		} `json:"items"`
		Total    json.Number `json:"total"`
		Quantity int         `json:"quantity"`
	} `json:"data"`
}

func newTestHandler() *HTTPHandler {
	return NewHTTPHandler(NewService(NewMemoryStore(time.Hour), NewMutexLocker(), time.Second), nil)
}

func withSession(r *http.Request, id string) *http.Request {
	return r.WithContext(visitor.ContextWithSessionID(r.Context(), id))
}

func TestHTTPHandler_Flow(t *testing.T) {
	h := newTestHandler()

	add := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := withSession(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)), "s1")
		h.AddItem(w, r)
		return w
	}

	w := add(`{"bookId":3,"title":"X","price":9.99,"quantity":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = add(`{"bookId":3,"title":"X","price":9.99,"quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env viewEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, 3, env.Data.Items[0].Quantity)
	assert.Equal(t, 9.99, env.Data.Items[0].Price)
	assert.Equal(t, json.Number("29.97"), env.Data.Total)

	w = httptest.NewRecorder()
	r := withSession(httptest.NewRequest(http.MethodDelete, "/cart/items/3", nil), "s1")
	r.SetPathValue("bookId", "3")
	h.RemoveItem(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0.00`)

	w = httptest.NewRecorder()
	h.Clear(w, withSession(httptest.NewRequest(http.MethodDelete, "/cart", nil), "s1"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHTTPHandler_Errors(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_REQUIRED")

	w = httptest.NewRecorder()
	r := withSession(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(`{"bookId":3,"title":"X","price":1,"quantity":0}`)), "s1")
	h.AddItem(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = httptest.NewRecorder()
	r = withSession(httptest.NewRequest(http.MethodDelete, "/cart/items/x", nil), "s1")
	r.SetPathValue("bookId", "x")
	h.RemoveItem(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPHandler_QuantityCannotWrap(t *testing.T) {
	h := newTestHandler()
	add := func(qty string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		body := `{"bookId":3,"title":"X","price":9.99,"quantity":` + qty + `}`
		h.AddItem(w, withSession(httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)), "s1"))
		return w
	}

	assert.Equal(t, http.StatusBadRequest, add("9223372036854775807").Code)
	require.Equal(t, http.StatusOK, add("9999").Code)

	w := add("1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")

	w = httptest.NewRecorder()
	h.Get(w, withSession(httptest.NewRequest(http.MethodGet, "/cart", nil), "s1"))
	var env viewEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, 9999, env.Data.Items[0].Quantity)
	assert.Equal(t, json.Number("99890.01"), env.Data.Total)
}
