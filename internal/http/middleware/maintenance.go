package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	maintenanceMessage = "Сервис на профилактике"
	maintenancePage    = `<!doctype html><html lang="ru"><head><meta charset="utf-8"/><title>Каталог</title></head>
<body style="font-family:sans-serif;text-align:center;padding-top:20vh;">
<h1>Каталог на профилактике</h1><p>Изменения товаров временно недоступны, повторите попытку позже.</p>
</body></html>`
)

// Maintenance answers 503 while flagPath exists. Browsers get a page, API
// clients the usual JSON error. Health and metrics stay reachable.
func Maintenance(flagPath string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if exempt(ctx.Request.URL.Path) || !flagSet(flagPath) {
			ctx.Next()
			return
		}
		if strings.Contains(ctx.GetHeader("Accept"), "text/html") {
			ctx.Data(http.StatusServiceUnavailable, "text/html; charset=utf-8", []byte(maintenancePage))
		} else {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": maintenanceMessage})
		}
		ctx.Abort()
	}
}

func exempt(path string) bool {
	return path == "/health" || path == "/metrics"
}

func flagSet(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
