package handlers

import (
	"strconv"
	"strings"

	"beercatalog/internal/domain"
	"beercatalog/internal/query"
	"beercatalog/internal/services"

	"github.com/gin-gonic/gin"
)

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondDomainError(c, domain.ValidationError{Field: "body", Msg: "Request body is empty"})
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "body", Msg: "Malformed request body", Err: err})
		return false
	}
	return true
}

// pathID reads a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "Invalid " + name + ": " + raw, Err: err})
		return 0, false
	}
	return id, true
}

// listParams reads page, size and sort. Filters are bound separately.
func listParams(c *gin.Context) (query.PageRequest, query.SortSpec, bool) {
	page, err := query.ParsePage(c.Query("page"), c.Query("size"))
	if err != nil {
		RespondDomainError(c, err)
		return query.PageRequest{}, query.SortSpec{}, false
	}
	return page, query.ParseSort(c.Query("sort"), services.DefaultSort), true
}

func bindFilter[T any](c *gin.Context, dst *T) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "filter", Msg: "Invalid filter parameters", Err: err})
		return false
	}
	return true
}
