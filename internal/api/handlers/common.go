package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hearthside/companion/internal/utils"
)

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps an error onto its HTTP status, hiding internals behind a
// generic message for 5xx responses.
func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) && status < 500 {
		c.JSON(status, apiError{Error: ae.Message, Code: string(ae.Code)})
		return
	}
	if errors.Is(err, utils.ErrNotFound) {
		c.JSON(status, apiError{Error: "not found", Code: string(utils.CodeNotFound)})
		return
	}
	c.JSON(status, apiError{Error: "internal error", Code: string(utils.CodeInternal)})
}
