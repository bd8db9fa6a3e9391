package http

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/catalog-admin-public/internal/config"
	"github.com/catalog-admin-public/internal/http/middleware"
	"github.com/catalog-admin-public/internal/metrics"
)

type RouterDeps struct {
	Handler  *Handler
	GraphQL  http.Handler
	Realtime http.Handler
	Metrics  *metrics.Metrics
	Config   config.Config
	Logger   *log.Entry
}

// NewRouter wires the REST, GraphQL and websocket endpoints behind the shared middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = log.WithField("component", "http")
	}
	var recorder middleware.RequestRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(deps.Logger, recorder))
	r.Use(middleware.CORS(deps.Config.AllowedOrigins))
	if deps.Config.MaintenanceFlag != "" {
		r.Use(middleware.Maintenance(deps.Config.MaintenanceFlag))
	}

	registerProductRoutes(r.Group("/products"), deps)
	if deps.GraphQL != nil {
		r.GET("/graphql", gin.WrapH(deps.GraphQL))
		r.POST("/graphql", gin.WrapH(deps.GraphQL))
	}
	if deps.Realtime != nil {
		r.GET("/ws", gin.WrapH(deps.Realtime))
	}

	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/", indexHandler(deps))
	r.NoRoute(staticHandler(deps.Config.StaticDir))

	return r
}

func registerProductRoutes(r *gin.RouterGroup, deps RouterDeps) {
	r.GET("", deps.Handler.ListProducts)
	r.POST("", deps.Handler.CreateProduct)
	r.GET("/:id", deps.Handler.GetProduct)
	r.PUT("/:id", deps.Handler.UpdateProduct)
	r.DELETE("/:id", deps.Handler.DeleteProduct)
}

// indexHandler serves the admin page, or joins the hub when the request is a
// websocket upgrade, since clients may connect on the bare server address.
func indexHandler(deps RouterDeps) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if deps.Realtime != nil && websocket.IsWebSocketUpgrade(ctx.Request) {
			deps.Realtime.ServeHTTP(ctx.Writer, ctx.Request)
			return
		}
		if deps.Config.StaticDir != "" {
			index := filepath.Join(deps.Config.StaticDir, deps.Config.StaticIndex)
			if info, err := os.Stat(index); err == nil && !info.IsDir() {
				ctx.File(index)
				return
			}
		}
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	}
}

func staticHandler(dir string) gin.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(ctx *gin.Context) {
		method := ctx.Request.Method
		if dir == "" || (method != http.MethodGet && method != http.MethodHead) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		path := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+ctx.Request.URL.Path)))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		files.ServeHTTP(ctx.Writer, ctx.Request)
	}
}
