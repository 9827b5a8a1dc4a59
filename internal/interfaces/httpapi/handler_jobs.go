package httpapi

import (
	"net/http"
)

type settleDueJobResultDTO struct {
	Settled int `json:"settled"`
}

// RunSettleDueJob settles every auction whose deadline has passed.
// External schedulers hit this as a belt-and-braces companion to the
// in-process sweeper; running both is harmless because settlement is
// idempotent against the stored deadline.
func (h *Handler) RunSettleDueJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSettleDueJob")
	defer span.End()

	settled, err := h.sweeper.SweepOnce(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "settle-due job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, settleDueJobResultDTO{Settled: settled})
}
