// Package bookstoreapi is an HTTP client for the catalog API. Reads are paced
// by a rate limiter and retried on transient failures; writes are sent once.
package bookstoreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/httpx"

	"golang.org/x/time/rate"
)

const (
	DefaultMaxRetries = 2
	defaultBackoff    = 200 * time.Millisecond
)

// TransportError reports a failed call. Retryable marks network failures,
// 429 and 5xx responses.
type TransportError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
	Retryable  bool
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr) && terr.StatusCode == http.StatusNotFound
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	RPS        float64
	MaxRetries int
	Backoff    time.Duration
	UserAgent  string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	token      string
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "bookstore-client/1.0"
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) FetchBooks(ctx context.Context, q book.Query) (book.Page, error) {
	v := url.Values{}
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	v.Set("page", strconv.Itoa(q.Page))
	if q.Sorted {
		v.Set("sorted", "1")
	} else {
		v.Set("sorted", "0")
	}
	for _, cat := range q.Categories {
		v.Add("categories", cat)
	}

	var page book.Page
	if err := c.get(ctx, "fetch books", "/books?"+v.Encode(), &page); err != nil {
		return book.Page{}, err
	}
	return page, nil
}

func (c *Client) AllBooks(ctx context.Context) ([]book.Book, error) {
	var books []book.Book
	if err := c.get(ctx, "all books", "/books/all", &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	if err := c.get(ctx, "categories", "/books/categories", &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) GetBook(ctx context.Context, id int64) (book.Book, error) {
	var b book.Book
	if err := c.get(ctx, "get book", fmt.Sprintf("/books/%d", id), &b); err != nil {
		return book.Book{}, err
	}
	return b, nil
}

func (c *Client) CreateBook(ctx context.Context, f book.Fields) (book.Book, error) {
	var b book.Book
	if err := c.send(ctx, "create book", http.MethodPost, "/books", f, &b); err != nil {
		return book.Book{}, err
	}
	return b, nil
}

func (c *Client) UpdateBook(ctx context.Context, b book.Book) (book.Book, error) {
	var out book.Book
	if err := c.send(ctx, "update book", http.MethodPut, fmt.Sprintf("/books/%d", b.ID), b, &out); err != nil {
		return book.Book{}, err
	}
	return out, nil
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.send(ctx, "delete book", http.MethodDelete, fmt.Sprintf("/books/%d", id), nil, nil)
}

// Login exchanges admin credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.send(ctx, "login", http.MethodPost, "/admin/login", body, &env); err != nil {
		return "", err
	}
	c.token = env.Data.Token
	return env.Data.Token, nil
}

// get retries transient failures with exponential backoff.
func (c *Client) get(ctx context.Context, op, path string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			backoff := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return &TransportError{Op: op, Err: ctx.Err()}
			}
		}

		err := c.do(ctx, op, http.MethodGet, path, nil, target)
		if err == nil {
			return nil
		}
		var terr *TransportError
		if !errors.As(err, &terr) || !terr.Retryable {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// send issues a mutation exactly once.
func (c *Client) send(ctx context.Context, op, method, path string, body, target any) error {
	return c.do(ctx, op, method, path, body, target)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return &TransportError{Op: op, Err: ctx.Err()}
		}
		return &TransportError{Op: op, Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	terr := &TransportError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
	}
	var env httpx.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &env) == nil {
		terr.Code = env.Error.Code
		terr.Message = env.Error.Message
	}
	terr.Err = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	return terr
}
