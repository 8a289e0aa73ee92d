// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/usestring/exemplar-mcp/pkg/exemplar"
	"github.com/usestring/exemplar-mcp/pkg/jsoncompact"
)

// Processing safety cap defaults
const (
	MaxDocumentsPerCallValue = 10000
	MaxDocumentsPerTypeValue = 100000
	ResultCacheMaxItemsValue = 256
	LoadWorkersValue         = 8
)

// DefaultIgnoreFields are bookkeeping fields of typical node documents that
// never belong in an example value.
var DefaultIgnoreFields = []string{"id", "parent", "children", "internal"}

// Config holds all configuration for the server and CLI.
type Config struct {
	// Inference
	LinkMarker   string   // EXEMPLAR_LINK_MARKER, default "___NODE"
	MaxDepth     int      // EXEMPLAR_MAX_DEPTH, default 64 (0 = unlimited)
	IgnoreFields []string // EXEMPLAR_IGNORE_FIELDS, comma separated
	DetectDates  bool     // EXEMPLAR_DETECT_DATES, default true

	// Processing safety caps
	MaxDocumentsPerCall int           // MAX_DOCUMENTS_PER_CALL, default 10000
	MaxDocumentsPerType int           // MAX_DOCUMENTS_PER_TYPE, default 100000
	ResultCacheMaxItems int           // RESULT_CACHE_MAX_ITEMS, default 256
	LoadWorkers         int           // LOAD_WORKERS, default 8
	SQLQueryTimeout     time.Duration // SQL_QUERY_TIMEOUT_MS, default 30000ms

	// Compaction defaults (for AI-optimized responses)
	CompactMaxArrayItems int // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxStringLen  int // COMPACT_MAX_STRING_LEN
	CompactMaxDepth      int // COMPACT_MAX_DEPTH

	// Transport
	HTTPAddr string // EXEMPLAR_HTTP_ADDR, default "" (stdio)

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		LinkMarker:   getEnvString("EXEMPLAR_LINK_MARKER", exemplar.DefaultLinkMarker),
		MaxDepth:     getEnvInt("EXEMPLAR_MAX_DEPTH", exemplar.DefaultMaxDepth),
		IgnoreFields: getEnvList("EXEMPLAR_IGNORE_FIELDS", DefaultIgnoreFields),
		DetectDates:  getEnvBool("EXEMPLAR_DETECT_DATES", true),

		MaxDocumentsPerCall: getEnvInt("MAX_DOCUMENTS_PER_CALL", MaxDocumentsPerCallValue),
		MaxDocumentsPerType: getEnvInt("MAX_DOCUMENTS_PER_TYPE", MaxDocumentsPerTypeValue),
		ResultCacheMaxItems: getEnvInt("RESULT_CACHE_MAX_ITEMS", ResultCacheMaxItemsValue),
		LoadWorkers:         getEnvInt("LOAD_WORKERS", LoadWorkersValue),
		SQLQueryTimeout:     getEnvDurationMs("SQL_QUERY_TIMEOUT_MS", 30000),

		// Compaction defaults (from jsoncompact package)
		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", jsoncompact.DefaultMaxArrayItems),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", jsoncompact.DefaultMaxStringLen),
		CompactMaxDepth:      getEnvInt("COMPACT_MAX_DEPTH", jsoncompact.DefaultMaxDepth),

		HTTPAddr: getEnvString("EXEMPLAR_HTTP_ADDR", ""),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// InferOptions translates the inference settings into core options.
func (c *Config) InferOptions() []exemplar.Option {
	opts := []exemplar.Option{
		exemplar.WithLinkMarker(c.LinkMarker),
		exemplar.WithMaxDepth(c.MaxDepth),
	}
	if !c.DetectDates {
		opts = append(opts, exemplar.WithDateDetector(nil))
	}
	return opts
}

// CompactOptions returns the display compaction settings.
func (c *Config) CompactOptions() *jsoncompact.Options {
	return &jsoncompact.Options{
		MaxArrayItems: c.CompactMaxArrayItems,
		MaxStringLen:  c.CompactMaxStringLen,
		MaxDepth:      c.CompactMaxDepth,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}

// getEnvList splits a comma separated value. A set but blank value yields an
// empty list; "-" does too, so the defaults can be switched off.
func getEnvList(key string, defaultVal []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return append([]string(nil), defaultVal...)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		out = append(out, part)
	}
	return out
}
