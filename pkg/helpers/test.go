package helpers

import (
	"context"
	"log/slog"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

// TestCtx returns a context carrying a discard logger.
func TestCtx() context.Context {
	log := slog.New(logger.NewTestHandler())
	return logger.ToContext(context.Background(), log)
}
