// File path: internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config carries process-wide settings resolved from the environment. Flags
// layered on top of these defaults live in cmd/lathemind.
type Config struct {
	AppName     string
	CincomModel string

	KnowledgePath       string
	CatalogPath         string
	MaxReferenceSamples int
	MaxUploadSize       int64
}

const (
	defaultKnowledgePath       = "knowledge_base"
	defaultCatalogPath         = "data/catalog.db"
	defaultMaxReferenceSamples = 3
	defaultMaxUploadSize       = 10 << 20
)

// Load resolves configuration from environment variables, falling back to
// defaults suited for a local single-operator deployment.
func Load() Config {
	cfg := Config{
		AppName:             "LatheMind",
		CincomModel:         firstNonEmpty(strings.TrimSpace(os.Getenv("CINCOM_MODEL")), "L20"),
		KnowledgePath:       firstNonEmpty(strings.TrimSpace(os.Getenv("LATHEMIND_KNOWLEDGE")), defaultKnowledgePath),
		CatalogPath:         firstNonEmpty(strings.TrimSpace(os.Getenv("LATHEMIND_CATALOG")), defaultCatalogPath),
		MaxReferenceSamples: defaultMaxReferenceSamples,
		MaxUploadSize:       defaultMaxUploadSize,
	}
	if raw := strings.TrimSpace(os.Getenv("LATHEMIND_MAX_SAMPLES")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.MaxReferenceSamples = parsed
		}
	}
	if raw := strings.TrimSpace(os.Getenv("LATHEMIND_MAX_UPLOAD")); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			cfg.MaxUploadSize = parsed
		}
	}
	return cfg
}

// KnowledgeAbsPath resolves the knowledge base directory to an absolute path.
func (c Config) KnowledgeAbsPath() string {
	abs, err := filepath.Abs(c.KnowledgePath)
	if err != nil {
		return c.KnowledgePath
	}
	return abs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
