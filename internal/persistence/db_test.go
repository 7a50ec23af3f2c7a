package persistence

import (
	"errors"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "maps.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	s := openStore(t)
	g := sampleGrid(t)

	info, err := s.SaveMap("coast", 42, g)
	if err != nil {
		t.Fatalf("SaveMap: %v", err)
	}
	if info.ID == "" || info.Size == 0 {
		t.Fatalf("SaveMap returned %+v", info)
	}

	loaded, got, err := s.LoadMap(info.ID, testTypes)
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if got.Name != "coast" || got.Seed != 42 || got.Width != 20 || got.Height != 15 || !got.Wrapping {
		t.Errorf("LoadMap info = %+v", got)
	}
	if loaded.CellCount() != g.CellCount() || len(loaded.Units()) != len(g.Units()) {
		t.Errorf("loaded %s, want %s", loaded, g)
	}
}

func TestStoreListDelete(t *testing.T) {
	s := openStore(t)
	g := sampleGrid(t)

	a, err := s.SaveMap("a", 1, g)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.SaveMap("b", 2, g)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatal("duplicate map ids")
	}

	maps, err := s.ListMaps()
	if err != nil {
		t.Fatalf("ListMaps: %v", err)
	}
	if len(maps) != 2 {
		t.Fatalf("ListMaps returned %d maps, want 2", len(maps))
	}

	if err := s.DeleteMap(a.ID); err != nil {
		t.Fatalf("DeleteMap: %v", err)
	}
	if err := s.DeleteMap(a.ID); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("second DeleteMap err = %v, want ErrMapNotFound", err)
	}
	if _, _, err := s.LoadMap(a.ID, testTypes); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("LoadMap after delete err = %v, want ErrMapNotFound", err)
	}

	maps, err = s.ListMaps()
	if err != nil {
		t.Fatal(err)
	}
	if len(maps) != 1 || maps[0].ID != b.ID {
		t.Errorf("ListMaps after delete = %+v", maps)
	}
}

func TestStoreMeta(t *testing.T) {
	s := openStore(t)
	if err := s.SaveMeta("active_map", "x"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveMeta("active_map", "y"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetMeta("active_map")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if v != "y" {
		t.Errorf("GetMeta = %q, want y", v)
	}
	if _, err := s.GetMeta("missing"); err == nil {
		t.Error("GetMeta on a missing key should fail")
	}
}
