// Package engine runs the turn-based game on top of the hex grid: spawning
// units, planning their routes, and moving them when a turn ends.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/talgya/hexworld/internal/pathfind"
	"github.com/talgya/hexworld/internal/world"
)

// Game errors.
var (
	ErrNoPath          = errors.New("no path")
	ErrUnitNotFound    = errors.New("unit not found")
	ErrUnknownUnitType = errors.New("unknown unit type")
	ErrInvalidCell     = errors.New("invalid cell")
)

// Move records one unit step taken while ending a turn.
type Move struct {
	UnitID int `json:"unitId"`
	From   int `json:"from"`
	To     int `json:"to"`
	Turn   int `json:"turn"`
}

// Game holds the grid, the known unit types, and standing orders.
// The embedded mutex guards all of it; methods expect the caller to hold it.
type Game struct {
	sync.Mutex

	Grid  *world.Grid
	Types map[string]world.UnitType
	Turn  int

	// Called after every EndTurn with the moves made during that turn.
	OnTurn func(turn int, moves []Move)

	orders map[int]int // Unit id to target cell index.
}

// NewGame wraps a grid. Units already on the grid start observing at once.
func NewGame(g *world.Grid, types map[string]world.UnitType) *Game {
	game := &Game{Types: types}
	game.Reset(g)
	return game
}

// Reset swaps in a new grid, dropping every order and restarting the turn count.
func (g *Game) Reset(grid *world.Grid) {
	g.Grid = grid
	g.Turn = 0
	g.orders = make(map[int]int)

	grid.ResetVisibility()
	for _, u := range grid.Units() {
		pathfind.Reveal(grid, grid.Cell(u.Location), u.Type.VisionRange)
	}
}

// Spawn places a unit of the named type on c and reveals what it sees.
func (g *Game) Spawn(typeName string, player int, c *world.Cell, orientation float32) (*world.Unit, error) {
	t, ok := g.Types[typeName]
	if !ok {
		return nil, fmt.Errorf("spawn %q: %w", typeName, ErrUnknownUnitType)
	}
	if c == nil || c.IsUnderwater() {
		return nil, fmt.Errorf("spawn %q: %w", typeName, ErrInvalidCell)
	}
	u, err := g.Grid.AddUnit(t, player, c, orientation)
	if err != nil {
		return nil, err
	}
	pathfind.Reveal(g.Grid, c, t.VisionRange)
	slog.Debug("unit spawned", "unit", u.ID, "type", t.Name, "cell", c.Coord.String())
	return u, nil
}

// Remove takes a unit off the map along with its vision and orders.
func (g *Game) Remove(unitID int) error {
	u := g.Grid.UnitByID(unitID)
	if u == nil {
		return fmt.Errorf("remove unit %d: %w", unitID, ErrUnitNotFound)
	}
	pathfind.Conceal(g.Grid, g.Grid.Cell(u.Location), u.Type.VisionRange)
	delete(g.orders, unitID)
	return g.Grid.RemoveUnit(unitID)
}

// Order sends a unit toward target and returns the planned path. The unit
// moves when turns end until it arrives or its way is blocked.
func (g *Game) Order(unitID int, target *world.Cell) (pathfind.Path, error) {
	u := g.Grid.UnitByID(unitID)
	if u == nil {
		return pathfind.Path{}, fmt.Errorf("order unit %d: %w", unitID, ErrUnitNotFound)
	}
	if target == nil {
		return pathfind.Path{}, fmt.Errorf("order unit %d: %w", unitID, ErrInvalidCell)
	}
	path, ok := pathfind.FindPath(g.Grid, g.Grid.Cell(u.Location), target, u)
	if !ok {
		return pathfind.Path{}, fmt.Errorf("order unit %d to %s: %w", unitID, target.Coord, ErrNoPath)
	}
	g.orders[unitID] = target.Index
	return path, nil
}

// Cancel drops a unit's standing order.
func (g *Game) Cancel(unitID int) {
	delete(g.orders, unitID)
}

// OrderTarget returns the cell index a unit is heading to.
func (g *Game) OrderTarget(unitID int) (int, bool) {
	t, ok := g.orders[unitID]
	return t, ok
}

// EndTurn moves every ordered unit as far along its route as one turn
// allows, updating vision at each step. Routes are planned afresh so units
// moved earlier in the turn are taken into account.
func (g *Game) EndTurn() []Move {
	var moves []Move
	for _, u := range g.Grid.Units() {
		target, ok := g.orders[u.ID]
		if !ok {
			continue
		}
		moves = append(moves, g.advance(u, g.Grid.Cell(target))...)
	}

	g.Turn++
	slog.Debug("turn ended", "turn", g.Turn, "moves", len(moves), "orders", len(g.orders))
	if g.OnTurn != nil {
		g.OnTurn(g.Turn, moves)
	}
	return moves
}

func (g *Game) advance(u *world.Unit, target *world.Cell) []Move {
	grid := g.Grid
	if u.Location == target.Index {
		delete(g.orders, u.ID)
		return nil
	}
	path, ok := pathfind.FindPath(grid, grid.Cell(u.Location), target, u)
	if !ok {
		slog.Info("order dropped, route blocked", "unit", u.ID, "target", target.Coord.String())
		delete(g.orders, u.ID)
		return nil
	}

	steps := path.ReachableThisTurn()
	if steps == 0 && path.Len() > 1 {
		// A fresh turn always allows one step, however costly.
		steps = 1
	}
	moves := make([]Move, 0, steps)
	for i := 1; i <= steps; i++ {
		from, to := grid.Cell(u.Location), grid.Cell(path.Cells[i])
		pathfind.Conceal(grid, from, u.Type.VisionRange)
		if err := grid.MoveUnit(u.ID, to); err != nil {
			// Path cells were free when planned and nothing else moves meanwhile.
			panic(fmt.Sprintf("engine: %v", err))
		}
		pathfind.Reveal(grid, to, u.Type.VisionRange)
		moves = append(moves, Move{UnitID: u.ID, From: from.Index, To: to.Index, Turn: g.Turn})
	}

	if u.Location == target.Index {
		delete(g.orders, u.ID)
	}
	return moves
}
