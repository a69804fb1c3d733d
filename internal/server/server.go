// Package server assembles the gin engine from the feature packages.
package server

import (
	"database/sql"
	_ "embed"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bibler-backend/internal/catalog"
	"bibler-backend/internal/catalog/books"
	"bibler-backend/internal/catalog/borrowers"
	"bibler-backend/internal/catalog/categories"
	"bibler-backend/internal/circulation/ledger"
	"bibler-backend/internal/circulation/stats"
	"bibler-backend/internal/circulation/workflow"
	"bibler-backend/internal/media"
	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/platform/config"
	"bibler-backend/internal/transfer"
)

//go:embed openapi.yaml
var openapi []byte

// Deps are the handles shared by every route.
type Deps struct {
	DB     *sql.DB
	Covers media.CoverStore
	Clock  clock.Clock
}

func New(cfg *config.Config, d Deps) *gin.Engine {
	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	driver := cfg.DB.Driver

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.IsDev() && len(cfg.CORS.AllowOrigins) > 0 {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) {
		if err := d.DB.PingContext(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	loans := ledger.NewStore(d.DB, driver)
	st := stats.NewService(d.DB, driver).WithClock(d.Clock)

	books.RegisterRoutes(r, books.NewService(d.DB, loans, st))
	borrowers.RegisterRoutes(r, borrowers.NewService(d.DB, loans, st))
	categories.RegisterRoutes(r, d.DB)
	ledger.RegisterRoutes(r, d.DB, driver)
	workflow.RegisterRoutes(r, workflow.NewService(d.DB, driver, catalog.Lookup{}).WithClock(d.Clock))
	stats.RegisterRoutes(r, st)
	transfer.RegisterRoutes(r, transfer.NewService(d.DB), d.Clock)
	media.RegisterRoutes(r, d.Covers)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		stats.NewCollector(st),
		collectors.NewGoCollector(),
		collectors.NewDBStatsCollector(d.DB, cfg.DB.Name()),
	)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	r.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openapi)
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.yaml")))

	r.Static("/static", cfg.Server.StaticDir)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/static/index.html")
	})

	return r
}
