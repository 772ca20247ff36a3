package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", fmt.Errorf("%w: seed", utils.ErrInvalidInput), http.StatusBadRequest, utils.ErrCodeValidation},
		{"missing columns", fmt.Errorf("salaries: %w: Salary", utils.ErrMissingColumns), http.StatusUnprocessableEntity, utils.ErrCodeDataIntegrity},
		{"not found", utils.ErrNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
		{"deadline", fmt.Errorf("%w: stopped after 3 candidates: %w", utils.ErrOptimizationFailed, context.DeadlineExceeded), http.StatusServiceUnavailable, utils.ErrCodeOptimization},
		{"optimization", utils.ErrOptimizationFailed, http.StatusUnprocessableEntity, utils.ErrCodeOptimization},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, utils.ErrCodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			respondError(c, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.err.Error(), body.Details["error"])
		})
	}
}
