package handlers

import (
	"net/http"

	"beercatalog/internal/domain"
	"beercatalog/internal/http/middleware"
	"beercatalog/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, code, message string) {
	middleware.AbortWithError(c, status, code, message)
}

// RespondDomainError maps domain errors to HTTP responses. Storage details
// are logged, never returned.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsUnauthenticated(err):
		respondError(c, http.StatusUnauthorized, "unauthenticated", err.Error())
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case domain.IsUnavailable(err):
		utils.Logger(c.Request.Context()).Error("storage unavailable", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		utils.Logger(c.Request.Context()).Error("unhandled error", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
