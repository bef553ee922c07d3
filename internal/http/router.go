package api

import (
	"database/sql"
	stdhttp "net/http"

	intconfig "beercatalog/internal/config"
	"beercatalog/internal/auth"
	h "beercatalog/internal/http/handlers"
	"beercatalog/internal/http/middleware"
	"beercatalog/internal/repositories"
	"beercatalog/internal/services"
	"beercatalog/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	DB     *sql.DB
	Hasher auth.Hasher
	Tokens auth.Tokens
	Cache  *services.ReadCache
}

// NewDeps builds production dependencies from env.
func NewDeps(env intconfig.Env, db *sql.DB) Deps {
	return Deps{
		DB:     db,
		Hasher: auth.BcryptHasher{},
		Tokens: auth.Tokens{Secret: []byte(env.JWTSecret), TTL: env.JWTTTL},
		Cache:  services.NewReadCache(env.CacheTTL),
	}
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	manufacturers := repositories.ManufacturerRepository{DB: deps.DB}
	beers := repositories.BeerRepository{DB: deps.DB}
	accounts := repositories.UserRepository{DB: deps.DB}

	authSvc := services.AuthService{Accounts: accounts, Hasher: deps.Hasher, Tokens: deps.Tokens}
	authH := h.AuthHandler{Svc: authSvc}
	manufacturerH := h.ManufacturerHandler{
		Svc: services.ManufacturerService{
			Manufacturers: manufacturers,
			Accounts:      accounts,
			Hasher:        deps.Hasher,
			Cache:         deps.Cache,
		},
		Catalog: services.CatalogService{Manufacturers: manufacturers, Beers: beers},
	}
	beerH := h.BeerHandler{Svc: services.BeerService{Beers: beers, Manufacturers: manufacturers, Cache: deps.Cache}}
	systemH := h.SystemHandler{DB: deps.DB}
	metrics := middleware.NewMetrics()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		metrics.Middleware(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.Authenticate(authSvc),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.L().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		middleware.AbortWithError(c, stdhttp.StatusNotFound, "route_not_found", "No route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	r.GET("/health", systemH.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.POST("/login", authH.Login)
	r.GET("/auth/me", authH.Me)

	writers := middleware.RequireRoles(auth.RoleAdmin, auth.RoleManufacturer)
	adminOnly := middleware.RequireRoles(auth.RoleAdmin)

	api := r.Group("/api")
	{
		m := api.Group("/manufacturer")
		m.GET("", manufacturerH.List)
		m.GET("/:id", manufacturerH.Read)
		m.GET("/:id/catalog.pdf", manufacturerH.CatalogPDF)
		m.POST("", adminOnly, manufacturerH.Create)
		m.PUT("/:id", writers, manufacturerH.Update)
		m.DELETE("/:id", adminOnly, manufacturerH.Delete)

		b := api.Group("/beer")
		b.GET("", beerH.List)
		b.GET("/:id", beerH.Read)
		b.POST("/:manufacturerId", writers, beerH.Create)
		b.PUT("/:id", writers, beerH.Update)
		b.DELETE("/:id", writers, beerH.Delete)
	}

	return r
}
