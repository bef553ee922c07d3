package handlers

import (
	"net/http"

	"beercatalog/internal/domain"
	"beercatalog/internal/domain/models"
	"beercatalog/internal/http/middleware"
	"beercatalog/internal/services"

	"github.com/gin-gonic/gin"
)

type BeerHandler struct {
	Svc services.BeerService
}

// POST /api/beer/:manufacturerId
func (h BeerHandler) Create(c *gin.Context) {
	mid, ok := pathID(c, "manufacturerId")
	if !ok {
		return
	}
	var in models.BeerInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), middleware.Principal(c), mid, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/beer/:id
func (h BeerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.BeerInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.Svc.Update(c.Request.Context(), middleware.Principal(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/beer/:id
func (h BeerHandler) Read(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.Svc.Read(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/beer?page=&size=&sort=&name=&style=&manufacturerId=&minAbv=&maxAbv=
func (h BeerHandler) List(c *gin.Context) {
	page, sort, ok := listParams(c)
	if !ok {
		return
	}
	var f domain.BeerFilter
	if !bindFilter(c, &f) {
		return
	}
	out, err := h.Svc.List(c.Request.Context(), f, sort, page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/beer/:id
func (h BeerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.Principal(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
