package world

import (
	"errors"
	"testing"
)

func TestUnitMoveCost(t *testing.T) {
	g := newTestGrid(t, 10, 10, false)
	u := &Unit{Type: Scout}
	c := g.CellAt(4, 4)
	e := g.Neighbor(c, E)
	w := g.Neighbor(c, W)
	ne := g.Neighbor(c, NE)

	if got := u.MoveCost(c, e, E); got != 5 {
		t.Errorf("flat cost = %d, want 5", got)
	}

	e.UrbanLevel, e.FarmLevel, e.PlantLevel = 1, 2, 3
	if got := u.MoveCost(c, e, E); got != 11 {
		t.Errorf("flat cost with features = %d, want 11", got)
	}

	g.SetElevation(w, 1)
	if got := u.MoveCost(c, w, W); got != 10 {
		t.Errorf("slope cost = %d, want 10", got)
	}
	g.AddRoad(c, W)
	if got := u.MoveCost(c, w, W); got != 1 {
		t.Errorf("road cost = %d, want 1", got)
	}

	g.SetElevation(ne, 2)
	if got := u.MoveCost(c, ne, NE); got != -1 {
		t.Errorf("cliff cost = %d, want -1", got)
	}

	se := g.Neighbor(c, SE)
	g.SetWalled(se, true)
	if got := u.MoveCost(c, se, SE); got != -1 {
		t.Errorf("wall cost = %d, want -1", got)
	}
}

func TestUnitValidDestination(t *testing.T) {
	g := newTestGrid(t, 10, 10, false)
	u := &Unit{Type: Scout}
	c := g.CellAt(4, 4)

	if u.IsValidDestination(c) {
		t.Error("unexplored cell should not be a destination")
	}
	g.SetExplored(c, true)
	if !u.IsValidDestination(c) {
		t.Error("explored dry cell should be a destination")
	}
	g.SetWaterLevel(c, 1)
	if u.IsValidDestination(c) {
		t.Error("underwater cell should not be a destination")
	}
	g.SetWaterLevel(c, 0)
	if _, err := g.AddUnit(Scout, 1, c, 0); err != nil {
		t.Fatal(err)
	}
	if u.IsValidDestination(c) {
		t.Error("occupied cell should not be a destination")
	}
}

func TestUnitLifecycle(t *testing.T) {
	g := newTestGrid(t, 10, 10, false)
	a := g.CellAt(2, 2)
	b := g.CellAt(3, 3)

	u, err := g.AddUnit(Scout, 1, a, 90)
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != 1 || a.UnitID() != 1 {
		t.Fatalf("unit id = %d, cell unit = %d", u.ID, a.UnitID())
	}
	if _, err := g.AddUnit(Scout, 2, a, 0); !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("AddUnit on occupied cell: %v", err)
	}

	if err := g.MoveUnit(u.ID, b); err != nil {
		t.Fatal(err)
	}
	if a.UnitID() != 0 || b.UnitID() != u.ID || u.Location != b.Index {
		t.Fatal("MoveUnit did not relocate")
	}

	if err := g.RemoveUnit(u.ID); err != nil {
		t.Fatal(err)
	}
	if b.UnitID() != 0 || len(g.Units()) != 0 {
		t.Fatal("RemoveUnit left state behind")
	}
	if err := g.RemoveUnit(u.ID); !errors.Is(err, ErrNoUnit) {
		t.Fatalf("second RemoveUnit: %v", err)
	}
}

func TestVisibility(t *testing.T) {
	g := newTestGrid(t, 10, 10, false)
	c := g.CellAt(4, 4)
	edge := g.CellAt(0, 4)

	g.IncreaseVisibility(c)
	g.IncreaseVisibility(c)
	if !c.IsVisible() || !c.Explored() || c.Visibility() != 2 {
		t.Fatal("cell should be visible and explored")
	}
	g.DecreaseVisibility(c)
	g.DecreaseVisibility(c)
	g.DecreaseVisibility(c)
	if c.IsVisible() || c.Visibility() != 0 {
		t.Fatal("visibility should floor at zero")
	}
	if !c.Explored() {
		t.Fatal("explored flag should persist")
	}

	g.IncreaseVisibility(edge)
	if edge.IsVisible() || edge.Explored() {
		t.Fatal("non-explorable cell should never be visible")
	}

	g.IncreaseVisibility(c)
	g.ResetVisibility()
	if c.IsVisible() {
		t.Fatal("ResetVisibility should clear observers")
	}
}
