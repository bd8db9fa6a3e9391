package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config aggregates runtime settings loaded from environment variables.
// Defaults match the Node.js admin server this service replaces.
type Config struct {
	Host string
	Port string

	CatalogBackend string
	ProductsFile   string

	PGHost     string
	PGPort     string
	PGDatabase string
	PGUser     string
	PGPassword string
	PGSSL      bool

	TLSCertFile string
	TLSKeyFile  string

	StaticDir       string
	StaticIndex     string
	MaintenanceFlag string
	GraphiQL        bool
	AllowedOrigins  []string

	HubSendBuffer     int
	WSMaxMessageBytes int64
	WSPingInterval    time.Duration

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load builds a Config from the process environment.
func Load() Config {
	return Config{
		Host:              firstNonEmpty(os.Getenv("HOST"), "0.0.0.0"),
		Port:              firstNonEmpty(os.Getenv("PORT"), "3000"),
		CatalogBackend:    strings.ToLower(firstNonEmpty(os.Getenv("CATALOG_BACKEND"), BackendFile)),
		ProductsFile:      firstNonEmpty(os.Getenv("PRODUCTS_FILE"), "products.json"),
		PGHost:            firstNonEmpty(os.Getenv("PG_HOST"), "localhost"),
		PGPort:            firstNonEmpty(os.Getenv("PG_PORT"), "5432"),
		PGDatabase:        firstNonEmpty(os.Getenv("PG_DATABASE"), "catalog"),
		PGUser:            firstNonEmpty(os.Getenv("PG_USER"), "catalog_user"),
		PGPassword:        os.Getenv("PG_PASSWORD"),
		PGSSL:             os.Getenv("PG_SSL") == "true",
		TLSCertFile:       os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:        os.Getenv("TLS_KEY_FILE"),
		StaticDir:         os.Getenv("STATIC_DIR"),
		StaticIndex:       firstNonEmpty(os.Getenv("STATIC_INDEX"), "admin.html"),
		MaintenanceFlag:   firstNonEmpty(os.Getenv("MAINTENANCE_FLAG"), "maintenance.flag"),
		GraphiQL:          os.Getenv("GRAPHIQL") != "false",
		AllowedOrigins:    splitList(firstNonEmpty(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		HubSendBuffer:     atoi(os.Getenv("HUB_SEND_BUFFER"), 64),
		WSMaxMessageBytes: int64(atoi(os.Getenv("WS_MAX_MESSAGE_BYTES"), 64*1024)),
		WSPingInterval:    time.Duration(atoi(os.Getenv("WS_PING_INTERVAL_SECONDS"), 30)) * time.Second,
		LogLevel:          firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		LogFormat:         firstNonEmpty(os.Getenv("LOG_FORMAT"), "text"),
		ShutdownTimeout:   time.Duration(atoi(os.Getenv("SHUTDOWN_TIMEOUT_SECONDS"), 10)) * time.Second,
	}
}

// Addr is the host:port pair the HTTP server listens on.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// TLSEnabled reports whether both certificate and key were configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// atoi returns fallback for empty, malformed or non-positive values.
func atoi(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
