package handlers

import (
	"context"
	"net/http"

	"partyplan/internal/logger"
	"partyplan/internal/models"

	"github.com/gin-gonic/gin"
)

// Runner executes one payment reminder run
type Runner interface {
	Run(ctx context.Context, trigger string) (*models.RunReport, error)
}

type Handlers struct {
	runner Runner
}

func NewHandlers(runner Runner) *Handlers {
	return &Handlers{runner: runner}
}

// PaymentReminders - ANY /functions/payment-reminders
// Runs the reminder job once; the request body is ignored.
func (h *Handlers) PaymentReminders(c *gin.Context) {
	// Preflight without an Origin header is not handled by the CORS middleware
	if c.Request.Method == http.MethodOptions {
		c.String(http.StatusOK, "ok")
		return
	}

	// A dropped client connection must not abort a run half way
	ctx := context.WithoutCancel(c.Request.Context())

	report, err := h.runner.Run(ctx, "http")
	if err != nil {
		logger.Get().Error().Err(err).Msg("Payment reminder run failed")
		c.JSON(http.StatusInternalServerError, models.RunResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.RunResponse{
		Success: true,
		Results: report.Results,
	})
}
