package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bookstore/internal/httpx"
	"bookstore/internal/platform/logger"
	"bookstore/internal/platform/validate"
)

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

type LoginReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResp struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// Login handles POST /admin/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if errs := validate.Struct(req); len(errs) > 0 {
		details := make([]httpx.ErrorDetail, len(errs))
		for i, e := range errs {
			details[i] = httpx.ErrorDetail{Field: e.Field, Message: e.Message}
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	token, expiresIn, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			h.logg.Warn(r.Context(), "admin login rejected")
			httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
			return
		}
		h.logg.Error(r.Context(), "admin login failed", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, LoginResp{Token: token, TokenType: "Bearer", ExpiresIn: expiresIn}, nil)
}
