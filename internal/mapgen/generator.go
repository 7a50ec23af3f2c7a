// Package mapgen procedurally generates hex maps.
// Land is raised and sunk in randomly sized chunks, eroded, watered by a
// simple cloud and moisture simulation, carved by rivers, and finally
// classified into biomes by temperature and moisture.
package mapgen

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/world"
)

// defaultSeeds draws from crypto/rand; a nil client never calls random.org.
var defaultSeeds SeedSource = (*entropy.Client)(nil)

// SeedSource supplies seeds when the configuration does not fix one.
type SeedSource interface {
	Seed() int64
}

// Report summarizes one generation run.
type Report struct {
	Seed int64 `json:"seed"`

	LandBudget       int `json:"landBudget"`       // Land cells requested
	UnusedLandBudget int `json:"unusedLandBudget"` // Land cells the raise loop failed to place
	LandCells        int `json:"landCells"`        // Land cells after raising and sinking

	ErodibleStart  int `json:"erodibleStart"`
	ErodibleTarget int `json:"erodibleTarget"`
	ErodibleEnd    int `json:"erodibleEnd"`

	RiverOrigins      int `json:"riverOrigins"`
	RiverBudget       int `json:"riverBudget"`
	UnusedRiverBudget int `json:"unusedRiverBudget"`
}

// Generator builds maps from a Config. A Generator reuses its buffers between
// runs and is not safe for concurrent use.
type Generator struct {
	Config Config
	Seeds  SeedSource

	// Per-run state.
	grid     *world.Grid
	rng      *rand.Rand
	frontier *world.CellPriorityQueue
	phase    int
	regions  []region
	climate  []climateData
	next     []climateData
}

// NewGenerator creates a generator. A nil seed source falls back to
// entropy.NewSeed.
func NewGenerator(cfg Config, seeds SeedSource) *Generator {
	return &Generator{Config: cfg, Seeds: seeds}
}

// Generate rebuilds g as a new width×height map. The only error is an
// unsupported map size, in which case g is left as it was.
func (gen *Generator) Generate(g *world.Grid, width, height int, wrapping bool) (Report, error) {
	cfg := gen.Config
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("generator config: %w", err)
	}

	seed := cfg.Seed
	if !cfg.FixedSeed {
		seed = gen.newSeed()
	}
	report := Report{Seed: seed}

	if err := g.CreateMap(width, height, wrapping); err != nil {
		return report, err
	}

	gen.grid = g
	gen.rng = rand.New(rand.NewSource(seed))
	defer func() {
		gen.grid = nil
		gen.rng = nil
		gen.frontier = nil
	}()

	for i := 0; i < g.CellCount(); i++ {
		g.SetWaterLevel(g.Cell(i), cfg.WaterLevel)
	}

	gen.createRegions()
	gen.createLand(&report)
	gen.erodeLand(&report)
	gen.createClimate()
	gen.createRivers(&report)
	gen.setTerrainType(seed)

	g.ResetSearchPhases()

	slog.Debug("map generated",
		"seed", seed,
		"size", fmt.Sprintf("%dx%d", width, height),
		"land", report.LandCells,
		"rivers", report.RiverBudget-report.UnusedRiverBudget,
	)
	return report, nil
}

func (gen *Generator) newSeed() int64 {
	if gen.Seeds != nil {
		return gen.Seeds.Seed()
	}
	return defaultSeeds.Seed()
}

// rangeInt returns a random int in [lo, hi), or lo when the range is empty.
func (gen *Generator) rangeInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + gen.rng.Intn(hi-lo)
}

// value returns a random float64 in [0, 1).
func (gen *Generator) value() float64 {
	return gen.rng.Float64()
}
