package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/usecase"
	"cutoff-alert-service/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// EscalationService is what the handler needs from the scheduler
type EscalationService interface {
	Trigger(ctx context.Context) (*entity.SweepResult, error)
	Running() bool
	LastResult() *entity.SweepResult
}

// StatusResponse reports the scheduler state
type StatusResponse struct {
	Running    bool                `json:"running"`
	LastResult *entity.SweepResult `json:"lastResult,omitempty"`
}

type EscalationHandler struct {
	service      EscalationService
	sweepTimeout time.Duration
	log          logger.Logger
}

// NewEscalationHandler creates the handler. A positive sweepTimeout caps a
// manual sweep so its result is written before the server's write deadline.
func NewEscalationHandler(service EscalationService, sweepTimeout time.Duration, log logger.Logger) *EscalationHandler {
	return &EscalationHandler{
		service:      service,
		sweepTimeout: sweepTimeout,
		log:          log,
	}
}

// Sweep runs a manual sweep and returns its result. The sweep outlives a
// disconnecting caller so latches stay consistent with dispatched alerts.
// A sweep cut short by sweepTimeout returns its partial result with
// interrupted set; unchecked records are picked up by the next sweep.
func (h *EscalationHandler) Sweep(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := context.WithoutCancel(r.Context())
	if h.sweepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.sweepTimeout)
		defer cancel()
	}

	result, err := h.service.Trigger(ctx)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrSweepInProgress) {
			status = http.StatusConflict
		}
		if writeErr := writeJSON(w, status, ErrorResponse{Error: err.Error()}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Sweep", "error", writeErr)
		}
		return
	}

	status := http.StatusOK
	if result.Error != "" {
		status = http.StatusBadGateway
	}
	if err := writeJSON(w, status, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Sweep", "error", err)
	}
}

func (h *EscalationHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := writeJSON(w, http.StatusOK, StatusResponse{
		Running:    h.service.Running(),
		LastResult: h.service.LastResult(),
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Status", "error", err)
	}
}

func (h *EscalationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/escalations/sweep", h.Sweep)
	router.GET("/api/v1/escalations/status", h.Status)
}
