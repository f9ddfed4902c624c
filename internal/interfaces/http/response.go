package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemLens-Insight/pkg/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an application error to its HTTP status and envelope.
// Unknown errors surface as 500 with a generic message, never the raw text.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	body := errorBody{Code: string(code), Message: "internal error"}
	if appErr, ok := err.(*errors.AppError); ok {
		body.Message = appErr.Message
		body.Detail = appErr.Detail
	}
	c.AbortWithStatusJSON(code.HTTPStatus(), gin.H{"error": body})
}
