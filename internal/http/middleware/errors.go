package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorDetail is the body of every error response:
// {"error":{"description":"...","code":"..."}}.
type ErrorDetail struct {
	Description string `json:"description"`
	Code        string `json:"code,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// AbortWithError writes the standard error body and stops the chain.
func AbortWithError(c *gin.Context, status int, code, description string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{
		Description: description,
		Code:        code,
		RequestID:   GetRequestID(c),
	}})
}
