// Command hexsim serves a turn-based hex map game over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexworld/internal/api"
	"github.com/talgya/hexworld/internal/config"
	"github.com/talgya/hexworld/internal/engine"
	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	fresh := flag.Bool("fresh", false, "generate a new map instead of resuming the active one")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("hexworld starting", "config", *configPath)

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.Server.DBPath); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	store, err := persistence.Open(cfg.Server.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("database opened", "path", cfg.Server.DBPath)

	// ── Map: resume the active one or generate ───────────────────────
	seeds := entropy.NewClient(cfg.Entropy.RandomOrgKey)
	if seeds.Enabled() {
		slog.Info("random.org seeds enabled")
	}
	gen := mapgen.NewGenerator(cfg.Generator, seeds)
	types := cfg.UnitTypes()

	grid, info, err := resume(store, types, *fresh)
	if err != nil {
		slog.Warn("could not resume active map, generating", "error", err)
	}
	if grid == nil {
		grid, info, err = generate(store, gen, cfg.Map)
		if err != nil {
			slog.Error("map generation failed", "error", err)
			os.Exit(1)
		}
	}

	// ── Game ──────────────────────────────────────────────────────────
	game := engine.NewGame(grid, types)
	if v, err := store.GetMeta("turn"); err == nil && !*fresh {
		game.Turn, _ = strconv.Atoi(v)
	}
	game.OnTurn = func(turn int, moves []engine.Move) {
		slog.Info("turn ended", "turn", turn, "moves", len(moves))
		if err := store.SaveMeta("turn", strconv.Itoa(turn)); err != nil {
			slog.Error("save turn failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("HEXWORLD_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("HEXWORLD_ADMIN_KEY not set, POST endpoints are open")
	}
	apiServer := &api.Server{
		Game:          game,
		Store:         store,
		Generator:     gen,
		Addr:          cfg.Server.Addr,
		AdminKey:      adminKey,
		GenerateLimit: cfg.Server.GenerateLimitPerHour,
		ActiveMap:     info.ID,
		Seed:          info.Seed,
	}
	srv := apiServer.Start()

	// ── Run until signalled ──────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go game.Run(ctx, cfg.Server.TurnInterval)

	fmt.Printf("\nhexworld is up: %dx%d map, %s cells, seed %d.\n",
		grid.Width, grid.Height, humanize.Comma(int64(grid.CellCount())), info.Seed)
	fmt.Printf("API: http://localhost%s/api/v1/status\n", cfg.Server.Addr)
	<-ctx.Done()
	slog.Info("received signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}

	// Final save on shutdown.
	game.Lock()
	saved, err := store.SaveMap("autosave", apiServer.Seed, game.Grid)
	game.Unlock()
	if err != nil {
		slog.Error("final save failed", "error", err)
		os.Exit(1)
	}
	if err := store.SaveMeta("active_map", saved.ID); err != nil {
		slog.Error("save active map failed", "error", err)
	}
	fmt.Printf("Game stopped at turn %d. Map saved as %s (%s).\n",
		game.Turn, saved.ID, humanize.Bytes(uint64(saved.Size)))
}

// resume loads the map recorded as active in the archive, if any.
func resume(store *persistence.Store, types persistence.UnitTypes, fresh bool) (*world.Grid, persistence.MapInfo, error) {
	if fresh {
		return nil, persistence.MapInfo{}, nil
	}
	id, err := store.GetMeta("active_map")
	if err != nil || id == "" {
		// Nothing archived yet, or the active map was deleted.
		return nil, persistence.MapInfo{}, nil
	}
	grid, info, err := store.LoadMap(id, types)
	if err != nil {
		return nil, persistence.MapInfo{}, err
	}
	slog.Info("resumed active map", "id", id, "name", info.Name, "saved", humanize.Time(info.CreatedAt))
	return grid, info, nil
}

func generate(store *persistence.Store, gen *mapgen.Generator, m config.MapConfig) (*world.Grid, persistence.MapInfo, error) {
	grid := world.NewGrid()
	start := time.Now()
	report, err := gen.Generate(grid, m.Width, m.Height, m.Wrapping)
	if err != nil {
		return nil, persistence.MapInfo{}, err
	}
	slog.Info("map generated",
		"seed", report.Seed,
		"cells", humanize.Comma(int64(grid.CellCount())),
		"land", report.LandCells,
		"took", time.Since(start).Round(time.Millisecond),
	)

	info, err := store.SaveMap(fmt.Sprintf("seed-%d", report.Seed), report.Seed, grid)
	if err != nil {
		return nil, persistence.MapInfo{}, fmt.Errorf("archive generated map: %w", err)
	}
	if err := store.SaveMeta("active_map", info.ID); err != nil {
		slog.Warn("save active map failed", "error", err)
	}
	if err := store.SaveMeta("turn", "0"); err != nil {
		slog.Warn("save turn failed", "error", err)
	}
	return grid, info, nil
}
