package engine

import (
	"context"
	"log/slog"
	"time"
)

// Run ends a turn every interval until ctx is done. An interval of zero
// leaves turns to explicit EndTurn calls and returns immediately.
func (g *Game) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	slog.Info("turn clock started", "turn", g.currentTurn(), "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("turn clock stopped", "turn", g.currentTurn())
			return
		case <-ticker.C:
			g.Lock()
			g.EndTurn()
			g.Unlock()
		}
	}
}

func (g *Game) currentTurn() int {
	g.Lock()
	defer g.Unlock()
	return g.Turn
}
