package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// statusFor maps an AppError code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case utils.ErrCodeValidation:
		return http.StatusBadRequest
	case utils.ErrCodeDataIntegrity, utils.ErrCodeOptimization:
		return http.StatusUnprocessableEntity
	case utils.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[string]string{
	utils.ErrCodeValidation:    "Invalid request",
	utils.ErrCodeDataIntegrity: "Input tables are unusable",
	utils.ErrCodeNotFound:      "Resource not found",
	utils.ErrCodeOptimization:  "Lineup build failed",
	utils.ErrCodeInternal:      "Internal server error",
}

// respondError classifies err and writes the matching status and body. A build cut
// short by its deadline or a client disconnect answers 503.
func respondError(c *gin.Context, err error) {
	code := utils.Classify(err)
	status, msg := statusFor(code), messages[code]
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		status, msg = http.StatusServiceUnavailable, "Lineup build interrupted"
	}
	c.JSON(status, ErrorResponse{
		Error:   msg,
		Code:    code,
		Details: map[string]string{"error": err.Error()},
	})
}

func badRequest(c *gin.Context, field, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request format",
		Code:    utils.ErrCodeValidation,
		Details: map[string]string{field: msg},
	})
}

func storeDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, ErrorResponse{
		Error: "Run storage is not configured",
		Code:  utils.ErrCodeInternal,
	})
}
