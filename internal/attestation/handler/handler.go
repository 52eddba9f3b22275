// Package handler wires the attestation ledger endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trustledger/internal/attestation/adapters"
	"trustledger/internal/attestation/models"
	"trustledger/internal/attestation/ports"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
	"trustledger/pkg/platform/httputil"
	"trustledger/pkg/requestcontext"
)

// Service defines the ledger operations the handler exposes.
type Service interface {
	Submit(ctx context.Context, caller, user id.Address, category string, value uint64) error
	GetAttestations(ctx context.Context, user id.Address) ([]models.Attestation, error)
	SetTrustSource(ctx context.Context, caller id.Address, oracle ports.TrustOracle, label string) error
}

// LocalOracle returns the in-process trust oracle for "source":"local"
// repoint requests, so the handler does not need to know how it is built.
type LocalOracle func() ports.TrustOracle

// Handler exposes the attestation ledger over HTTP.
type Handler struct {
	service     Service
	localOracle LocalOracle
	logger      *slog.Logger
}

func New(service Service, localOracle LocalOracle, logger *slog.Logger) *Handler {
	return &Handler{service: service, localOracle: localOracle, logger: logger}
}

// Register mounts the ledger endpoints behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/attestations", h.HandleSubmit)
	r.Post("/admin/trust-source", h.HandleSetTrustSource)
}

// RegisterPublic mounts the endpoints that need no caller identity.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/attestations/{user}", h.HandleList)
}

// HandleSubmit handles POST /attestations.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[submitRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	user, err := id.ParseAddress(req.User)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Submit(ctx, caller, user, req.Category, req.Value); err != nil {
		h.logger.WarnContext(ctx, "attestation rejected",
			"request_id", requestID,
			"reporter", caller,
			"user", user,
			"category", req.Category,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "attestation submitted",
		"request_id", requestID,
		"reporter", caller,
		"user", user,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"status": "accepted"})
}

// HandleList handles GET /attestations/{user}.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, err := id.ParseAddress(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.GetAttestations(r.Context(), user)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.Attestation{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// HandleSetTrustSource handles POST /admin/trust-source.
func (h *Handler) HandleSetTrustSource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[sourceRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	var (
		oracle ports.TrustOracle
		label  string
	)
	switch {
	case req.Source == "local":
		oracle = h.localOracle()
		label = "local"
	case req.URL != "":
		oracle = adapters.NewHTTPTrustOracle(req.URL)
		label = req.URL
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, `either "source":"local" or a url is required`))
		return
	}

	if err := h.service.SetTrustSource(ctx, caller, oracle, label); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"trust_source": label})
}

type submitRequest struct {
	User     string `json:"user"`
	Category string `json:"category"`
	Value    uint64 `json:"value"`
}

type sourceRequest struct {
	Source string `json:"source,omitempty"`
	URL    string `json:"url,omitempty"`
}
