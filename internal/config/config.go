package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/revisia/revisia-backend/internal/grading"
	"github.com/revisia/revisia-backend/internal/leitner"
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

	BlobBasePath string // question media on disk

	AuthSecret string // HMAC for JWTs

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// Scheduling policy. Both are tunable without a rebuild.
	BoxWeights     leitner.Weights
	ToleranceRatio float64 // TEXT fuzzy-match threshold
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	weights := leitner.DefaultWeights()
	if v := os.Getenv("LEITNER_BOX_WEIGHTS"); v != "" {
		w, err := leitner.ParseWeights(v)
		if err != nil {
			log.Printf("LEITNER_BOX_WEIGHTS invalid (%v), using defaults", err)
		} else {
			weights = w
		}
	}

	tolerance := grading.DefaultToleranceRatio
	if v := os.Getenv("GRADING_TOLERANCE_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			tolerance = f
		} else {
			log.Printf("GRADING_TOLERANCE_RATIO invalid (%q), using default", v)
		}
	}

	return Config{
		Mode:               mode,
		HTTPAddr:           addr,
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:         envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://app.revisia.example.com"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
		BoxWeights:         weights,
		ToleranceRatio:     tolerance,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
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
