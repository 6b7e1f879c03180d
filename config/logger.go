package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// NewLogger builds the process logger: text output when pretty, JSON otherwise.
func NewLogger(cfg *Config) (*slog.Logger, error) {
	return newLogger(os.Stdout, cfg.Env.Log)
}

func newLogger(w io.Writer, l Log) (*slog.Logger, error) {
	level, err := parseLogLevel(l.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Pretty {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level: %s", level)
	}
}

// RequestLogger logs at debug level since /data is polled every few seconds.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Debug("http request",
			slog.String("method", c.Request.Method),
			slog.String("uri", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("remote_ip", c.ClientIP()),
		)
	}
}
