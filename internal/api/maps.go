package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.Game.Lock()
	defer s.Game.Unlock()

	g := s.Game.Grid
	explored := 0
	for i := 0; i < g.CellCount(); i++ {
		if g.Cell(i).Explored() {
			explored++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":      "hexworld",
		"turn":      s.Game.Turn,
		"width":     g.Width,
		"height":    g.Height,
		"wrapping":  g.Wrapping,
		"cells":     g.CellCount(),
		"explored":  explored,
		"units":     len(g.Units()),
		"seed":      s.Seed,
		"activeMap": s.ActiveMap,
		"started":   humanize.Time(s.started),
	})
}

// handleMap returns every cell. With ?explored=true only explored cells are sent.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	onlyExplored := r.URL.Query().Get("explored") == "true"

	s.Game.Lock()
	defer s.Game.Unlock()

	g := s.Game.Grid
	cells := make([]cellView, 0, g.CellCount())
	for i := 0; i < g.CellCount(); i++ {
		c := g.Cell(i)
		if onlyExplored && !c.Explored() {
			continue
		}
		cells = append(cells, viewCell(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"width":    g.Width,
		"height":   g.Height,
		"wrapping": g.Wrapping,
		"cells":    cells,
	})
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	s.Game.Lock()
	defer s.Game.Unlock()

	c, err := s.cellAt(chi.URLParam(r, "x"), chi.URLParam(r, "z"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if c == nil {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	g := s.Game.Grid
	neighbors := make(map[string]cellRef, 6)
	for d := world.NE; d <= world.NW; d++ {
		if n := g.Neighbor(c, d); n != nil {
			neighbors[d.String()] = refOf(n)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cell":       viewCell(c),
		"coord":      c.Coord.String(),
		"chunk":      c.Chunk,
		"explorable": c.Explorable,
		"visibility": c.Visibility(),
		"neighbors":  neighbors,
	})
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "map archive disabled", http.StatusServiceUnavailable)
		return
	}
	maps, err := s.Store.ListMaps()
	if err != nil {
		slog.Error("list maps failed", "error", err)
		http.Error(w, "list maps failed", http.StatusInternalServerError)
		return
	}
	if maps == nil {
		maps = []persistence.MapInfo{}
	}
	writeJSON(w, http.StatusOK, maps)
}

// handleGenerate builds a fresh map, archives it, and puts it in play.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Seed     *int64 `json:"seed"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		Wrapping *bool  `json:"wrapping"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	s.Game.Lock()
	defer s.Game.Unlock()

	current := s.Game.Grid
	width, height, wrapping := current.Width, current.Height, current.Wrapping
	if req.Width != 0 {
		width = req.Width
	}
	if req.Height != 0 {
		height = req.Height
	}
	if req.Wrapping != nil {
		wrapping = *req.Wrapping
	}
	if width > maxMapSide || height > maxMapSide {
		http.Error(w, "map too large", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = "untitled"
	}

	cfg := s.Generator.Config
	if req.Seed != nil {
		cfg.FixedSeed = true
		cfg.Seed = *req.Seed
	}
	grid := world.NewGrid()
	report, err := mapgen.NewGenerator(cfg, s.Generator.Seeds).Generate(grid, width, height, wrapping)
	if errors.Is(err, world.ErrUnsupportedMapSize) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("map generation failed", "error", err)
		http.Error(w, "generation failed", http.StatusInternalServerError)
		return
	}

	// Archive before swapping so a failed save leaves the map in play untouched.
	resp := map[string]any{"report": report}
	activeMap := ""
	if s.Store != nil {
		info, err := s.Store.SaveMap(req.Name, report.Seed, grid)
		if err != nil {
			slog.Error("archive map failed", "error", err)
			http.Error(w, "archive failed", http.StatusInternalServerError)
			return
		}
		activeMap = info.ID
		if err := s.Store.SaveMeta("active_map", info.ID); err != nil {
			slog.Warn("save active map failed", "error", err)
		}
		resp["map"] = info
	}

	s.Game.Reset(grid)
	s.Seed = report.Seed
	s.ActiveMap = activeMap

	slog.Info("map generated via API", "seed", report.Seed, "size", humanize.Comma(int64(grid.CellCount())))
	writeJSON(w, http.StatusCreated, resp)
}

// handleLoad puts an archived map in play.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "map archive disabled", http.StatusServiceUnavailable)
		return
	}

	s.Game.Lock()
	defer s.Game.Unlock()

	id := chi.URLParam(r, "id")
	grid, info, err := s.Store.LoadMap(id, s.Game.Types)
	switch {
	case errors.Is(err, persistence.ErrMapNotFound):
		http.Error(w, "map not found", http.StatusNotFound)
		return
	case errors.Is(err, persistence.ErrUnknownVersion), errors.Is(err, persistence.ErrUnknownUnitType):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		slog.Error("load map failed", "id", id, "error", err)
		http.Error(w, "load failed", http.StatusInternalServerError)
		return
	}

	s.Game.Reset(grid)
	s.Seed = info.Seed
	s.ActiveMap = info.ID
	if err := s.Store.SaveMeta("active_map", info.ID); err != nil {
		slog.Warn("save active map failed", "error", err)
	}
	writeJSON(w, http.StatusOK, info)
}

// handleDeleteMap removes an archived map. Deleting the map in play only
// forgets its id; the grid stays in play.
func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		http.Error(w, "map archive disabled", http.StatusServiceUnavailable)
		return
	}

	s.Game.Lock()
	defer s.Game.Unlock()

	id := chi.URLParam(r, "id")
	err := s.Store.DeleteMap(id)
	if errors.Is(err, persistence.ErrMapNotFound) {
		http.Error(w, "map not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("delete map failed", "id", id, "error", err)
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}

	if s.ActiveMap == id {
		s.ActiveMap = ""
		if err := s.Store.SaveMeta("active_map", ""); err != nil {
			slog.Warn("clear active map failed", "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
