package middleware

import (
	"context"
	"net/http"
	"strings"

	"beercatalog/internal/auth"
	"beercatalog/internal/domain"
	"beercatalog/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

// PrincipalResolver turns credentials into a principal.
type PrincipalResolver interface {
	Authenticate(ctx context.Context, name, password string) (auth.Principal, error)
	ParseToken(raw string) (auth.Principal, error)
	Refresh(ctx context.Context, p auth.Principal) (auth.Principal, error)
}

// Authenticate resolves the caller from a Bearer token or Basic credentials.
// Requests without an Authorization header continue as anonymous; invalid
// credentials are rejected. Bearer principals on writes are reloaded from
// the account store.
func Authenticate(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			setPrincipal(c, auth.Anonymous)
			c.Next()
			return
		}

		var (
			p   auth.Principal
			err error
		)
		scheme, value, _ := strings.Cut(header, " ")
		switch {
		case strings.EqualFold(scheme, "Bearer"):
			p, err = resolver.ParseToken(strings.TrimSpace(value))
			if err == nil && isWrite(c.Request.Method) {
				p, err = resolver.Refresh(c.Request.Context(), p)
			}
		case strings.EqualFold(scheme, "Basic"):
			name, password, ok := c.Request.BasicAuth()
			if !ok {
				err = domain.UnauthenticatedError{Msg: "Malformed basic credentials"}
				break
			}
			p, err = resolver.Authenticate(c.Request.Context(), name, password)
		default:
			err = domain.UnauthenticatedError{Msg: "Unsupported authorization scheme"}
		}

		if err != nil {
			if domain.IsUnauthenticated(err) {
				c.Header("WWW-Authenticate", `Bearer, Basic realm="beercatalog"`)
				AbortWithError(c, http.StatusUnauthorized, "unauthenticated", err.Error())
				return
			}
			utils.Logger(c.Request.Context()).Error("resolve principal", zap.Error(err))
			AbortWithError(c, http.StatusServiceUnavailable, "unavailable", "storage unavailable")
			return
		}

		setPrincipal(c, p)
		c.Next()
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func setPrincipal(c *gin.Context, p auth.Principal) {
	c.Set(principalKey, p)
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
}

func principalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Anonymous, false
	}
	p, ok := v.(auth.Principal)
	return p, ok && !p.IsAnonymous()
}

// Principal returns the resolved caller, anonymous when none.
func Principal(c *gin.Context) auth.Principal {
	p, _ := auth.FromContext(c.Request.Context())
	return p
}
