package handlers

import (
	"net/http"

	"beercatalog/internal/http/middleware"
	"beercatalog/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Svc services.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type currentUser struct {
	Anonymous      bool     `json:"anonymous"`
	ID             int64    `json:"id,omitempty"`
	Name           string   `json:"name,omitempty"`
	Roles          []string `json:"roles"`
	ManufacturerID *int64   `json:"manufacturerId,omitempty"`
}

// POST /login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /auth/me
func (h AuthHandler) Me(c *gin.Context) {
	p := middleware.Principal(c)
	out := currentUser{Anonymous: p.IsAnonymous(), Roles: []string{}}
	if !out.Anonymous {
		out.ID = p.UserID
		out.Name = p.Name
		out.ManufacturerID = p.ScopeID
		for _, r := range p.Roles {
			out.Roles = append(out.Roles, string(r))
		}
	}
	c.JSON(http.StatusOK, out)
}
