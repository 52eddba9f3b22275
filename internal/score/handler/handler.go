// Package handler wires the score calculator endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trustledger/internal/score/adapters"
	"trustledger/internal/score/ports"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
	"trustledger/pkg/platform/httputil"
	"trustledger/pkg/requestcontext"
)

// Service defines the calculator operations the handler exposes.
type Service interface {
	CalculateScore(ctx context.Context, user id.Address, adjustmentFactor uint64) (uint64, error)
	SetAttestationSource(ctx context.Context, caller id.Address, source ports.AttestationSource, label string) error
}

// LocalSource returns the in-process attestation source for "source":"local"
// repoint requests, so the handler does not need to know how it is built.
type LocalSource func() ports.AttestationSource

// Handler exposes the score calculator over HTTP.
type Handler struct {
	service     Service
	localSource LocalSource
	logger      *slog.Logger
}

func New(service Service, localSource LocalSource, logger *slog.Logger) *Handler {
	return &Handler{service: service, localSource: localSource, logger: logger}
}

// Register mounts the admin endpoint behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/attestation-source", h.HandleSetAttestationSource)
}

// RegisterPublic mounts the read endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/score/{user}", h.HandleScore)
}

// HandleScore handles GET /score/{user}?ppa=NN. The ppa query parameter is
// the payment-to-assets adjustment factor the score is normalized by.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	user, err := id.ParseAddress(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ppa, err := strconv.ParseUint(r.URL.Query().Get("ppa"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "ppa must be a non-negative integer"))
		return
	}

	score, err := h.service.CalculateScore(ctx, user, ppa)
	if err != nil {
		h.logger.WarnContext(ctx, "score calculation failed",
			"request_id", requestID,
			"user", user,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "score served",
		"request_id", requestID,
		"user", user,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, scoreResponse{User: user.String(), PPA: ppa, Score: score})
}

// HandleSetAttestationSource handles POST /admin/attestation-source.
func (h *Handler) HandleSetAttestationSource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[sourceRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	var (
		source ports.AttestationSource
		label  string
	)
	switch {
	case req.Source == "local":
		source = h.localSource()
		label = "local"
	case req.URL != "":
		source = adapters.NewHTTPAttestationSource(req.URL)
		label = req.URL
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, `either "source":"local" or a url is required`))
		return
	}

	if err := h.service.SetAttestationSource(ctx, caller, source, label); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"attestation_source": label})
}

type scoreResponse struct {
	User  string `json:"user"`
	PPA   uint64 `json:"ppa"`
	Score uint64 `json:"score"`
}

type sourceRequest struct {
	Source string `json:"source,omitempty"`
	URL    string `json:"url,omitempty"`
}
