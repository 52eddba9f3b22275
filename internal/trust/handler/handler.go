// Package handler wires the trust registry endpoints. Handlers stay thin:
// decode, delegate, translate errors.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	id "trustledger/pkg/domain"
	"trustledger/pkg/platform/httputil"
	"trustledger/pkg/requestcontext"
)

// Service defines the registry operations the handler exposes.
type Service interface {
	SetTrust(ctx context.Context, caller, bank id.Address, trusted bool) error
	IsTrusted(ctx context.Context, bank id.Address) (bool, error)
	TransferOwnership(ctx context.Context, caller, newOwner id.Address) error
}

// Handler exposes the trust registry over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the registry endpoints. The read endpoint is public; writes
// sit behind the auth middleware applied by the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/trust/banks", h.HandleSetTrust)
	r.Post("/trust/owner", h.HandleTransferOwnership)
}

// RegisterPublic mounts the endpoints that need no caller identity.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/trust/banks/{address}", h.HandleIsTrusted)
}

// HandleSetTrust handles POST /trust/banks.
func (h *Handler) HandleSetTrust(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[setTrustRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	bank, err := id.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.SetTrust(ctx, caller, bank, req.Trusted); err != nil {
		h.logger.WarnContext(ctx, "set trust rejected",
			"request_id", requestID,
			"caller", caller,
			"bank", bank,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "trust updated",
		"request_id", requestID,
		"bank", bank,
		"trusted", req.Trusted,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, trustStatusResponse{Address: bank.String(), Trusted: req.Trusted})
}

// HandleIsTrusted handles GET /trust/banks/{address}.
func (h *Handler) HandleIsTrusted(w http.ResponseWriter, r *http.Request) {
	bank, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	trusted, err := h.service.IsTrusted(r.Context(), bank)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, trustStatusResponse{Address: bank.String(), Trusted: trusted})
}

// HandleTransferOwnership handles POST /trust/owner.
func (h *Handler) HandleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	req, ok := httputil.DecodeAndPrepare[transferOwnershipRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	newOwner, err := id.ParseAddress(req.NewOwner)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.TransferOwnership(ctx, caller, newOwner); err != nil {
		h.logger.WarnContext(ctx, "ownership transfer rejected",
			"request_id", requestID,
			"caller", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"owner": newOwner.String()})
}

type setTrustRequest struct {
	Address string `json:"address"`
	Trusted bool   `json:"trusted"`
}

type transferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

type trustStatusResponse struct {
	Address string `json:"address"`
	Trusted bool   `json:"trusted"`
}
