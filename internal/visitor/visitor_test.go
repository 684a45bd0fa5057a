package visitor

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOptions = Options{
	CookieName:     "bookstore_session",
	PreferenceName: "BookType",
	Secure:         true,
	MaxAge:         24 * time.Hour,
}

func run(r *http.Request) (*httptest.ResponseRecorder, string) {
	var seen string
	h := Middleware(testOptions, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w, seen
}

func TestMiddleware_IssuesCookie(t *testing.T) {
	w, seen := run(httptest.NewRequest(http.MethodGet, "/books", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "bookstore_session", c.Name)
	assert.Equal(t, seen, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, 86400, c.MaxAge)
}

func TestMiddleware_KeepsExistingSession(t *testing.T) {
	id := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	r.AddCookie(&http.Cookie{Name: "bookstore_session", Value: id})
	r.AddCookie(&http.Cookie{Name: "BookType", Value: "Fiction"})

	_, seen := run(r)
	assert.Equal(t, id, seen)
}

func TestMiddleware_ReplacesForgedSession(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books", nil)
	r.AddCookie(&http.Cookie{Name: "bookstore_session", Value: "../../etc"})

	_, seen := run(r)
	assert.NotEqual(t, "../../etc", seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
