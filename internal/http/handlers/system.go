package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	intdb "beercatalog/internal/db"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	DB *sql.DB
}

// GET /health reports liveness plus database and schema readiness.
func (h SystemHandler) Health(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": "not connected"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "database": "unreachable"})
		return
	}

	missing := []string{}
	for _, t := range intdb.Tables {
		if !intdb.HasTable(ctx, h.DB, t) {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "ok", "missing_tables": missing})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}
