package handlers

import (
	"errors"
	"net/http"

	"solar-roi/internal/api/models"
	"solar-roi/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidConfig   = "INVALID_CONFIG"
	CodeMissingData     = "MISSING_DATA"
	CodeSimulationError = "SIMULATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondErr maps a simulation error to a status and code.
func respondErr(c *gin.Context, err error) {
	status, code := classify(err)
	respondError(c, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidConfiguration), errors.Is(err, model.ErrContractViolation):
		return http.StatusBadRequest, CodeInvalidConfig
	case errors.Is(err, model.ErrMissingData):
		return http.StatusUnprocessableEntity, CodeMissingData
	}
	return http.StatusInternalServerError, CodeSimulationError
}
