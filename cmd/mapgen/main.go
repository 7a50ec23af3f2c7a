// Command mapgen generates a single hex map and writes it to a .map file,
// the map archive, or both.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexworld/internal/config"
	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	width := flag.Int("width", 0, "map width in cells (config value when zero)")
	height := flag.Int("height", 0, "map height in cells (config value when zero)")
	wrap := flag.Bool("wrap", false, "wrap the map east-west")
	seed := flag.Int64("seed", -1, "generation seed (random when negative)")
	out := flag.String("out", "", "write the encoded map to this file")
	dbPath := flag.String("db", "", "archive the map in this SQLite database")
	name := flag.String("name", "", "archive name (seed-based when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.Log.Level)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *out == "" && *dbPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -out and/or -db")
		os.Exit(2)
	}
	if *width == 0 {
		*width = cfg.Map.Width
	}
	if *height == 0 {
		*height = cfg.Map.Height
	}
	wrapping := cfg.Map.Wrapping || *wrap

	genCfg := cfg.Generator
	if *seed >= 0 {
		genCfg.FixedSeed = true
		genCfg.Seed = *seed
	}
	gen := mapgen.NewGenerator(genCfg, entropy.NewClient(cfg.Entropy.RandomOrgKey))

	grid := world.NewGrid()
	report, err := gen.Generate(grid, *width, *height, wrapping)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
	printSummary(grid, report)

	if *out != "" {
		if err := writeFile(*out, grid); err != nil {
			slog.Error("write map failed", "path", *out, "error", err)
			os.Exit(1)
		}
	}

	if *dbPath != "" {
		store, err := persistence.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		if *name == "" {
			*name = fmt.Sprintf("seed-%d", report.Seed)
		}
		info, err := store.SaveMap(*name, report.Seed, grid)
		if err != nil {
			slog.Error("archive failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("archived %q as %s\n", info.Name, info.ID)
	}
}

func writeFile(path string, grid *world.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := persistence.Encode(f, grid); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if st, err := os.Stat(path); err == nil {
		fmt.Printf("wrote %s (%s)\n", path, humanize.Bytes(uint64(st.Size())))
	}
	return nil
}

func printSummary(grid *world.Grid, report mapgen.Report) {
	cells := grid.CellCount()
	terrain := make(map[int]int)
	rivers, underwater := 0, 0
	for i := 0; i < cells; i++ {
		c := grid.Cell(i)
		if c.IsUnderwater() {
			underwater++
			continue
		}
		terrain[c.TerrainType]++
		if c.HasOutgoingRiver() {
			rivers++
		}
	}

	fmt.Printf("map %dx%d (%s cells), seed %d, wrapping %t\n",
		grid.Width, grid.Height, humanize.Comma(int64(cells)), report.Seed, grid.Wrapping)
	fmt.Printf("land %s of %s budget, %s underwater\n",
		humanize.Comma(int64(report.LandCells)), humanize.Comma(int64(report.LandBudget)),
		humanize.Comma(int64(underwater)))
	fmt.Printf("erosion %d -> %d erodible (target %d)\n",
		report.ErodibleStart, report.ErodibleEnd, report.ErodibleTarget)
	fmt.Printf("river segments %d from %d candidate origins\n", rivers, report.RiverOrigins)

	types := make([]int, 0, len(terrain))
	for t := range terrain {
		types = append(types, t)
	}
	sort.Ints(types)
	for _, t := range types {
		fmt.Printf("  %-6s %6s  %s\n", mapgen.TerrainName(t), humanize.Comma(int64(terrain[t])),
			humanize.FtoaWithDigits(100*float64(terrain[t])/float64(cells), 1)+"%")
	}
}
