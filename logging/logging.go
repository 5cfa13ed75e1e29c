package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// PrettyJSONHandler is a custom handler that pretty prints JSON in development
type PrettyJSONHandler struct {
	*slog.JSONHandler
	writer io.Writer
}

func (h *PrettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	// Convert the record to a map
	attrs := make(map[string]interface{})
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	// Add time and level
	attrs["time"] = r.Time.Format(time.RFC3339)
	attrs["level"] = r.Level.String()
	attrs["msg"] = r.Message

	// Marshal with indentation
	prettyJSON, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return err
	}

	// Write to the handler's writer with newline
	_, err = h.writer.Write(append(prettyJSON, '\n'))
	return err
}

// NewPrettyJSONHandler creates a new pretty JSON handler
func newPrettyJSONHandler() *PrettyJSONHandler {
	return &PrettyJSONHandler{
		JSONHandler: slog.NewJSONHandler(os.Stdout, nil),
		writer:      os.Stdout,
	}
}

var ProdLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

var DevLogger = slog.New(newPrettyJSONHandler())

// ForTransaction returns a logger carrying a fresh transaction id. Every
// statement logged through it can be correlated back to the transaction.
func ForTransaction(logger *slog.Logger) (*slog.Logger, string) {
	txID := uuid.NewString()
	return logger.With("tx_id", txID), txID
}

// ForDialect tags a logger with the backend dialect name so multi-backend
// work (e.g. a distributed commit) stays distinguishable in output.
func ForDialect(logger *slog.Logger, dialect string) *slog.Logger {
	return logger.With("dialect", dialect)
}
