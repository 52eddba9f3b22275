// Package handler wires the loan-compliance ledger endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trustledger/internal/loans/models"
	id "trustledger/pkg/domain"
	dErrors "trustledger/pkg/domain-errors"
	"trustledger/pkg/platform/httputil"
	"trustledger/pkg/requestcontext"
)

// Service defines the ledger operations the handler exposes.
type Service interface {
	AddLoanRecord(ctx context.Context, caller, user id.Address, amount uint64) (models.LoanRecord, error)
	MarkLoanAsPaid(ctx context.Context, caller, user id.Address, index uint64) error
	GetLoanHistory(ctx context.Context, user id.Address) ([]models.LoanRecord, error)
	GetCompliancePercentage(ctx context.Context, user id.Address) (uint64, error)
}

// Handler exposes the loan ledger over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the write endpoints behind the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/loans", h.HandleAdd)
	r.Post("/loans/{user}/{index}/payment", h.HandleMarkPaid)
}

// RegisterPublic mounts the read endpoints.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/loans/{user}", h.HandleHistory)
	r.Get("/loans/{user}/compliance", h.HandleCompliance)
}

// HandleAdd handles POST /loans.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[addLoanRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	user, err := id.ParseAddress(req.User)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rec, err := h.service.AddLoanRecord(ctx, caller, user, req.Amount)
	if err != nil {
		h.logger.WarnContext(ctx, "loan add rejected",
			"request_id", requestID,
			"provider", caller,
			"user", user,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "loan added",
		"request_id", requestID,
		"provider", caller,
		"user", user,
		"seq", rec.Seq,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, rec)
}

// HandleMarkPaid handles POST /loans/{user}/{index}/payment.
func (h *Handler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller := requestcontext.Caller(ctx)

	user, err := id.ParseAddress(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "index must be a non-negative integer"))
		return
	}

	if err := h.service.MarkLoanAsPaid(ctx, caller, user, index); err != nil {
		h.logger.WarnContext(ctx, "mark paid rejected",
			"request_id", requestID,
			"provider", caller,
			"user", user,
			"index", index,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "paid"})
}

// HandleHistory handles GET /loans/{user}.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	user, err := id.ParseAddress(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.GetLoanHistory(r.Context(), user)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.LoanRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// HandleCompliance handles GET /loans/{user}/compliance.
func (h *Handler) HandleCompliance(w http.ResponseWriter, r *http.Request) {
	user, err := id.ParseAddress(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	percentage, err := h.service.GetCompliancePercentage(r.Context(), user)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, complianceResponse{User: user.String(), Percentage: percentage})
}

type addLoanRequest struct {
	User   string `json:"user"`
	Amount uint64 `json:"amount"`
}

type complianceResponse struct {
	User       string `json:"user"`
	Percentage uint64 `json:"percentage"`
}
