package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"duckup/internal/paths"
)

// New creates a structured logger that writes to a timestamped file inside
// the logs directory. Every record carries the command that produced it.
// The returned closer should be closed when logging is no longer needed.
func New(d paths.Dirs, command string) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(d.LogsDir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	filePath := filepath.Join(d.LogsDir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(file).With().
		Timestamp().
		Str("command", command).
		Logger()
	return logger, file, nil
}
