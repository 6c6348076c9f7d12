// Package handler exposes the verification endpoint over HTTP. It translates
// domain outcomes and errors into the wire envelopes the Mini App front-end
// expects; no business logic lives here.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"fnsgate/internal/verification/inn"
	"fnsgate/internal/verification/models"
	"fnsgate/internal/verification/provider"
	"fnsgate/pkg/platform/httputil"
	"fnsgate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks VerificationService

// VerificationService is the domain entry point consumed by this handler.
type VerificationService interface {
	Verify(ctx context.Context, raw string) (models.Result, error)
}

// Handler wires the verification endpoint to the verification service.
type Handler struct {
	service VerificationService
	logger  *slog.Logger
}

// New constructs a verification handler.
func New(service VerificationService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/fns/verify-inn", h.HandleVerifyINN)
}

type verifyRequest struct {
	INN string `json:"inn"`
}

type providerErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HandleVerifyINN handles POST /api/fns/verify-inn requests.
func (h *Handler) HandleVerifyINN(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req verifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.INN) == "" {
		httputil.WriteMessage(w, http.StatusBadRequest, "inn is required")
		return
	}

	result, err := h.service.Verify(ctx, req.INN)
	if err != nil {
		h.writeVerifyError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if result.Status == models.StatusError {
		// A definitive "no such organization" is a 404 with the error
		// envelope in the body, not a failed request.
		status = http.StatusNotFound
	}

	h.logger.InfoContext(ctx, "inn verified",
		"request_id", requestcontext.RequestID(ctx),
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, status, result)
}

func (h *Handler) writeVerifyError(ctx context.Context, w http.ResponseWriter, err error) {
	var invalidErr *inn.InvalidError
	if errors.As(err, &invalidErr) {
		httputil.WriteMessage(w, http.StatusBadRequest, invalidErr.Error())
		return
	}

	var transportErr *provider.TransportError
	if errors.As(err, &transportErr) {
		h.logger.ErrorContext(ctx, "registry provider unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		resp := providerErrorResponse{Message: "registry provider unavailable"}
		if transportErr.Detail != "" {
			resp.Details = transportErr.Detail
		} else if transportErr.Err != nil {
			resp.Details = transportErr.Err.Error()
		}
		httputil.WriteJSON(w, http.StatusBadGateway, resp)
		return
	}

	h.logger.ErrorContext(ctx, "verification failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteMessage(w, http.StatusInternalServerError, "internal error")
}
