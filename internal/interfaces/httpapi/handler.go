package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/propdesk/prop-grading/internal/platform/logging"
	"github.com/propdesk/prop-grading/internal/usecase"
)

type Handler struct {
	boxScoreService    *usecase.BoxScoreService
	readoutService     *usecase.ReadoutService
	preflightService   *usecase.PreflightService
	gradingService     *usecase.GradingService
	packGradingService *usecase.PackGradingService
	selection          *usecase.SelectionController
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	boxScoreService *usecase.BoxScoreService,
	readoutService *usecase.ReadoutService,
	preflightService *usecase.PreflightService,
	gradingService *usecase.GradingService,
	packGradingService *usecase.PackGradingService,
	selection *usecase.SelectionController,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		boxScoreService:    boxScoreService,
		readoutService:     readoutService,
		preflightService:   preflightService,
		gradingService:     gradingService,
		packGradingService: packGradingService,
		selection:          selection,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
