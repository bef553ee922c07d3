package handlers

import (
	"net/http"

	"beercatalog/internal/domain"
	"beercatalog/internal/domain/models"
	"beercatalog/internal/http/middleware"
	"beercatalog/internal/services"

	"github.com/gin-gonic/gin"
)

type ManufacturerHandler struct {
	Svc     services.ManufacturerService
	Catalog services.CatalogService
}

// POST /api/manufacturer
func (h ManufacturerHandler) Create(c *gin.Context) {
	var in models.ManufacturerInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), middleware.Principal(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// PUT /api/manufacturer/:id
func (h ManufacturerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.ManufacturerInput
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

// GET /api/manufacturer/:id
func (h ManufacturerHandler) Read(c *gin.Context) {
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

// GET /api/manufacturer?page=&size=&sort=&name=&country=
func (h ManufacturerHandler) List(c *gin.Context) {
	page, sort, ok := listParams(c)
	if !ok {
		return
	}
	var f domain.ManufacturerFilter
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

// DELETE /api/manufacturer/:id
func (h ManufacturerHandler) Delete(c *gin.Context) {
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

// GET /api/manufacturer/:id/catalog.pdf
func (h ManufacturerHandler) CatalogPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.Catalog.ManufacturerSheet(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
