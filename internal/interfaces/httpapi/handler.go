package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/zhangzheng888/gridiron-auction/internal/usecase"
)

// DraftEventSource hands out per-draft snapshot streams for the live
// draft-room feed.
type DraftEventSource interface {
	Subscribe(draftID string) (<-chan []byte, func())
}

type Handler struct {
	leagueService *usecase.LeagueService
	playerService *usecase.PlayerService
	draftService  *usecase.DraftService
	sweeper       *usecase.SettlementSweeper
	events        DraftEventSource
	logger        *slog.Logger
	validator     *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	playerService *usecase.PlayerService,
	draftService *usecase.DraftService,
	sweeper *usecase.SettlementSweeper,
	events DraftEventSource,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		leagueService: leagueService,
		playerService: playerService,
		draftService:  draftService,
		sweeper:       sweeper,
		events:        events,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(body io.Reader, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s violates %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: validation failed: %s", usecase.ErrInvalidInput, strings.Join(parts, ", "))
		}
		return fmt.Errorf("%w: invalid request payload", usecase.ErrInvalidInput)
	}

	return nil
}
