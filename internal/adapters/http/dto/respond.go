package dto

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/api-integration/internal/domain/result"
	"github.com/jsamuelsen/api-integration/internal/platform/logging"
)

// RespondOK writes a 200 success envelope around value.
func RespondOK[T any](c *gin.Context, value T) {
	c.JSON(http.StatusOK, NewEnvelope(value))
}

// RespondWithResult writes the problem payload for a failed outcome.
// It returns ErrSuccessResult, writing nothing, when outcome is a success.
//
// 5xx problems are logged at ERROR with the full error; the client only
// sees the catalog description.
func RespondWithResult(c *gin.Context, outcome result.Outcome) error {
	problem, err := ToProblemDetails(outcome, c.Request)
	if err != nil {
		return err
	}

	if problem.Status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			slog.String("error_code", outcome.Err().Code()),
			slog.String("error", outcome.Err().Error()),
			slog.Int("status", problem.Status),
		)
	}

	WriteProblem(c, problem)

	return nil
}
