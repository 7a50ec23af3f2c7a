package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/talgya/hexworld/internal/engine"
	"github.com/talgya/hexworld/internal/pathfind"
	"github.com/talgya/hexworld/internal/world"
)

// handlePath finds a route between two cells: ?from=x,z&to=x,z[&type=scout].
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	s.Game.Lock()
	defer s.Game.Unlock()

	from, err := s.cellParam(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := s.cellParam(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if from == nil || to == nil {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	typeName := r.URL.Query().Get("type")
	if typeName == "" {
		typeName = world.Scout.Name
	}
	t, ok := s.Game.Types[typeName]
	if !ok {
		http.Error(w, "unknown unit type", http.StatusBadRequest)
		return
	}

	mover := &world.Unit{Type: t}
	path, ok := pathfind.FindPath(s.Game.Grid, from, to, mover)
	if !ok {
		http.Error(w, "no path", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, viewPath(s.Game.Grid, path))
}

// handleVisible lists the cells seen from ?x=&z= with an optional ?range=,
// defaulting to a scout's vision.
func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rangeVal := world.Scout.VisionRange
	if v := q.Get("range"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 20 {
			http.Error(w, "range must be 0-20", http.StatusBadRequest)
			return
		}
		rangeVal = n
	}

	s.Game.Lock()
	defer s.Game.Unlock()

	c, err := s.cellAt(q.Get("x"), q.Get("z"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if c == nil {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	visible := pathfind.VisibleCells(s.Game.Grid, c, rangeVal)
	refs := make([]cellRef, len(visible))
	for i, v := range visible {
		refs[i] = refOf(v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"from": refOf(c), "range": rangeVal, "cells": refs})
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	s.Game.Lock()
	defer s.Game.Unlock()

	units := s.Game.Grid.Units()
	out := make([]unitView, len(units))
	for i, u := range units {
		out[i] = viewUnit(s.Game, u)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string  `json:"type"`
		Player      int     `json:"player"`
		X           int     `json:"x"`
		Z           int     `json:"z"`
		Orientation float32 `json:"orientation"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		req.Type = world.Scout.Name
	}

	s.Game.Lock()
	defer s.Game.Unlock()

	c := s.Game.Grid.CellAt(req.X, req.Z)
	if c == nil {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}
	u, err := s.Game.Spawn(req.Type, req.Player, c, req.Orientation)
	switch {
	case errors.Is(err, engine.ErrUnknownUnitType):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, world.ErrCellOccupied):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusCreated, viewUnit(s.Game, u))
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid unit id", http.StatusBadRequest)
		return
	}
	var req struct {
		X int `json:"x"`
		Z int `json:"z"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.Game.Lock()
	defer s.Game.Unlock()

	target := s.Game.Grid.CellAt(req.X, req.Z)
	if target == nil {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}
	path, err := s.Game.Order(id, target)
	switch {
	case errors.Is(err, engine.ErrUnitNotFound):
		http.Error(w, "unit not found", http.StatusNotFound)
		return
	case errors.Is(err, engine.ErrNoPath):
		http.Error(w, "no path", http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u := s.Game.Grid.UnitByID(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"unit": viewUnit(s.Game, u),
		"path": viewPath(s.Game.Grid, path),
	})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	s.Game.Lock()
	defer s.Game.Unlock()

	moves := s.Game.EndTurn()
	writeJSON(w, http.StatusOK, map[string]any{
		"turn":  s.Game.Turn,
		"moves": viewMoves(s.Game.Grid, moves),
	})
}
