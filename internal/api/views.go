package api

import (
	"github.com/talgya/hexworld/internal/engine"
	"github.com/talgya/hexworld/internal/pathfind"
	"github.com/talgya/hexworld/internal/world"
)

type cellRef struct {
	X int `json:"x"`
	Z int `json:"z"`
}

func refOf(c *world.Cell) cellRef {
	x, z := c.Coord.ToOffset()
	return cellRef{X: x, Z: z}
}

type cellView struct {
	cellRef
	Terrain       int              `json:"terrain"`
	Elevation     int              `json:"elevation"`
	WaterLevel    int              `json:"water"`
	Urban         int              `json:"urban,omitempty"`
	Farm          int              `json:"farm,omitempty"`
	Plant         int              `json:"plant,omitempty"`
	Special       int              `json:"special,omitempty"`
	Walled        bool             `json:"walled,omitempty"`
	IncomingRiver *world.Direction `json:"incomingRiver,omitempty"`
	OutgoingRiver *world.Direction `json:"outgoingRiver,omitempty"`
	Roads         uint8            `json:"roads,omitempty"`
	Explored      bool             `json:"explored"`
	Visible       bool             `json:"visible"`
	Unit          int              `json:"unit,omitempty"`
}

func viewCell(c *world.Cell) cellView {
	v := cellView{
		cellRef:    refOf(c),
		Terrain:    c.TerrainType,
		Elevation:  c.Elevation(),
		WaterLevel: c.WaterLevel(),
		Urban:      c.UrbanLevel,
		Farm:       c.FarmLevel,
		Plant:      c.PlantLevel,
		Special:    c.SpecialIndex(),
		Walled:     c.Walled(),
		Roads:      c.RoadMask(),
		Explored:   c.Explored(),
		Visible:    c.IsVisible(),
		Unit:       c.UnitID(),
	}
	if c.HasIncomingRiver() {
		d := c.IncomingRiver()
		v.IncomingRiver = &d
	}
	if c.HasOutgoingRiver() {
		d := c.OutgoingRiver()
		v.OutgoingRiver = &d
	}
	return v
}

type unitView struct {
	ID          int      `json:"id"`
	Type        string   `json:"type"`
	Player      int      `json:"player"`
	Cell        cellRef  `json:"cell"`
	Orientation float32  `json:"orientation"`
	Target      *cellRef `json:"target,omitempty"`
}

func viewUnit(game *engine.Game, u *world.Unit) unitView {
	v := unitView{
		ID:          u.ID,
		Type:        u.Type.Name,
		Player:      u.Player,
		Cell:        refOf(game.Grid.Cell(u.Location)),
		Orientation: u.Orientation,
	}
	if t, ok := game.OrderTarget(u.ID); ok {
		ref := refOf(game.Grid.Cell(t))
		v.Target = &ref
	}
	return v
}

type pathStep struct {
	cellRef
	Distance int `json:"distance"`
	Turn     int `json:"turn"`
}

type pathView struct {
	Steps []pathStep `json:"steps"`
	Cost  int        `json:"cost"`
	Turns int        `json:"turns"`
}

func viewPath(g *world.Grid, p pathfind.Path) pathView {
	v := pathView{Cost: p.Cost, Turns: p.Turns(), Steps: make([]pathStep, len(p.Cells))}
	for i, idx := range p.Cells {
		turn := 0
		if i > 0 {
			turn = p.TurnAt(i)
		}
		v.Steps[i] = pathStep{cellRef: refOf(g.Cell(idx)), Distance: p.Distances[i], Turn: turn}
	}
	return v
}

type moveView struct {
	UnitID int     `json:"unitId"`
	From   cellRef `json:"from"`
	To     cellRef `json:"to"`
}

func viewMoves(g *world.Grid, moves []engine.Move) []moveView {
	out := make([]moveView, len(moves))
	for i, m := range moves {
		out[i] = moveView{UnitID: m.UnitID, From: refOf(g.Cell(m.From)), To: refOf(g.Cell(m.To))}
	}
	return out
}
