package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // archived exports

	EnableLocalAuth bool
	AdminUser       string
	AdminPassHash   string // bcrypt
	AuthHMACSecret  string

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	ExportDefaultFormat   string
	ExportStrict          bool
	ExportUnsupportedMode string // silent|comment
	LocaleBundle          string // optional JSON overlay on the English strings

	PDFFontRegular string
	PDFFontBold    string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:                  mode,
		HTTPAddr:              envOr("HTTP_ADDR", ":8080"),
		DBDriver:              envOr("DB_DRIVER", "sqlite"),
		DBDSN:                 envOr("DB_DSN", ""),
		BlobBasePath:          envOr("BLOB_BASE_PATH", "./data"),
		EnableLocalAuth:       envBool("ENABLE_LOCAL_AUTH", true),
		AdminUser:             envOr("ADMIN_USER", "admin"),
		AdminPassHash:         envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		AuthHMACSecret:        envOr("AUTH_HMAC_SECRET", "dev-secret-change-me"),
		CORSOriginsOnline:     csvOr("CORS_ORIGINS_ONLINE", "https://lms.mindengage.ai"),
		CORSOriginsOffline:    csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:3010"),
		ExportDefaultFormat:   envOr("EXPORT_DEFAULT_FORMAT", "pdf"),
		ExportStrict:          envBool("EXPORT_STRICT", true),
		ExportUnsupportedMode: envOr("EXPORT_UNSUPPORTED_MODE", "silent"),
		LocaleBundle:          os.Getenv("LOCALE_BUNDLE"),
		PDFFontRegular:        os.Getenv("PDF_FONT_REGULAR"),
		PDFFontBold:           os.Getenv("PDF_FONT_BOLD"),
	}
}

// CORSOrigins picks the origin list for the running mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
