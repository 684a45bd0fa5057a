package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookstore/internal/auth"
	"bookstore/internal/book"
	"bookstore/internal/cart"
	"bookstore/internal/config"
	"bookstore/internal/httpx"
	"bookstore/internal/platform/crypto"
	"bookstore/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const emmaJSON = `{"title":"Emma","author":"Jane Austen","publisher":"Penguin","isbn":"978-0141439587",` +
	`"classification":"823.7","category":"Fiction","pageCount":474,"price":9.99}`

func testConfig() *config.Config {
	return &config.Config{
		DB: config.DBConfig{Driver: config.DriverMemory},
		HTTP: config.HTTPConfig{
			CORSOrigins:  []string{"http://localhost:5173"},
			MaxBodyBytes: 1 << 20,
		},
		Session: config.SessionConfig{
			CookieName:     "bookstore_session",
			PreferenceName: "BookType",
			CookieMaxAge:   time.Hour,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	d := deps{
		cfg:     cfg,
		logg:    logger.Nop(),
		books:   book.NewService(book.NewMemoryRepo(book.DemoCatalog()...)),
		carts:   cart.NewService(cart.NewMemoryStore(time.Hour), cart.NewMutexLocker(), time.Second),
		metrics: httpx.NewMetrics(),
	}
	if cfg.Admin.Enabled() {
		d.auth = auth.NewService(cfg.Admin.JWTSecret, cfg.Admin.Username, cfg.Admin.PasswordHash, time.Hour)
	}
	srv := httptest.NewServer(newRouter(d))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, header map[string]string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
	}
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouting_CatalogSurface(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp := do(t, http.MethodGet, srv.URL+"/books?pageSize=5&page=2&sorted=1&categories=Fiction", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Books []book.Book `json:"books"`
		Count int         `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 6, page.Count)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Wuthering Heights", page.Books[0].Title)

	resp = do(t, http.MethodGet, srv.URL+"/books/categories", "", nil)
	var cats []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cats))
	assert.Equal(t, []string{"Fiction", "History", "Philosophy", "Poetry", "Politics", "Science", "Technology"}, cats)

	resp = do(t, http.MethodGet, srv.URL+"/api/Books/AllBooks", "", nil)
	var all []book.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Len(t, all, len(book.DemoCatalog()))

	resp = do(t, http.MethodPost, srv.URL+"/books", emmaJSON, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created book.Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, int64(len(all)+1), created.ID)

	resp = do(t, http.MethodDelete, srv.URL+"/books/99", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/Books/DeleteBook/1", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodGet, srv.URL+"/books/1", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/books?pageSize=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/readyz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouting_CatalogIsNotAffectedByCookies(t *testing.T) {
	srv := newTestServer(t, testConfig())

	plain := do(t, http.MethodGet, srv.URL+"/books?pageSize=3", "", nil)
	withPref := do(t, http.MethodGet, srv.URL+"/books?pageSize=3", "", map[string]string{"Cookie": "BookType=Poetry"})

	var a, b json.RawMessage
	require.NoError(t, json.NewDecoder(plain.Body).Decode(&a))
	require.NoError(t, json.NewDecoder(withPref.Body).Decode(&b))
	assert.JSONEq(t, string(a), string(b))

	var sawSession bool
	for _, c := range plain.Cookies() {
		if c.Name == "bookstore_session" {
			sawSession = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, sawSession)
}

func TestRouting_CartUsesVisitorSession(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp := do(t, http.MethodPost, srv.URL+"/cart/items", `{"bookId":3,"title":"X","price":9.99,"quantity":1}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "bookstore_session" {
			session = c
		}
	}
	require.NotNil(t, session)

	cookie := map[string]string{"Cookie": "bookstore_session=" + session.Value}
	resp = do(t, http.MethodPost, srv.URL+"/cart/items", `{"bookId":3,"title":"X","price":9.99,"quantity":2}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env struct {
		Data cart.View `json:"data"`
	}
	resp = do(t, http.MethodGet, srv.URL+"/cart", "", cookie)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, 3, env.Data.Items[0].Quantity)
	assert.Equal(t, "29.97", env.Data.Total.String())

	resp = do(t, http.MethodGet, srv.URL+"/cart", "", nil)
	env.Data = cart.View{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Empty(t, env.Data.Items)
}

func TestRouting_AdminGuardsMutations(t *testing.T) {
	hash, err := crypto.HashPassword("Correct-Horse-9")
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Admin = config.AdminConfig{JWTSecret: "secret", Username: "admin", PasswordHash: hash, TokenTTL: time.Hour}
	srv := newTestServer(t, cfg)

	resp := do(t, http.MethodPost, srv.URL+"/books", emmaJSON, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/books", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/admin/login", `{"username":"admin","password":"Correct-Horse-9"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var env struct {
		Data auth.LoginResp `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	bearer := map[string]string{"Authorization": "Bearer " + env.Data.Token}
	resp = do(t, http.MethodPost, srv.URL+"/books", emmaJSON, bearer)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRouting_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp := do(t, http.MethodOptions, srv.URL+"/books/3", "", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
