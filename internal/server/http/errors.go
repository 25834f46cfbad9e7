package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const msgMalformedBody = "Request body must be valid JSON."

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	e := services.AsError(err)
	c.AbortWithStatusJSON(statusFor(e), messageResponse{Message: e.Message})
}
