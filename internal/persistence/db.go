// Package persistence provides the binary map format and a SQLite-backed map archive.
package persistence

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexworld/internal/world"
)

// ErrMapNotFound is returned when no archived map has the requested id.
var ErrMapNotFound = errors.New("map not found")

// Store wraps a SQLite connection holding archived maps.
type Store struct {
	conn *sqlx.DB
}

// MapInfo describes an archived map without its cell data.
type MapInfo struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Seed      int64     `db:"seed" json:"seed"`
	Width     int       `db:"width" json:"width"`
	Height    int       `db:"height" json:"height"`
	Wrapping  bool      `db:"wrapping" json:"wrapping"`
	Version   int       `db:"version" json:"version"`
	Size      int       `db:"size" json:"size"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS maps (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		wrapping INTEGER NOT NULL,
		version INTEGER NOT NULL,
		size INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		data BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS map_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_maps_created ON maps(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveMap encodes g and archives it under a fresh id.
func (s *Store) SaveMap(name string, seed int64, g *world.Grid) (MapInfo, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		return MapInfo{}, err
	}

	info := MapInfo{
		ID:        uuid.NewString(),
		Name:      name,
		Seed:      seed,
		Width:     g.Width,
		Height:    g.Height,
		Wrapping:  g.Wrapping,
		Version:   FormatVersion,
		Size:      buf.Len(),
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.conn.Exec(`INSERT INTO maps
		(id, name, seed, width, height, wrapping, version, size, created_at, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.ID, info.Name, info.Seed, info.Width, info.Height, info.Wrapping,
		info.Version, info.Size, info.CreatedAt, buf.Bytes(),
	)
	if err != nil {
		return MapInfo{}, fmt.Errorf("insert map %s: %w", name, err)
	}

	slog.Info("map archived", "id", info.ID, "name", name, "bytes", info.Size)
	return info, nil
}

// LoadMap decodes the archived map with the given id.
func (s *Store) LoadMap(id string, types UnitTypes) (*world.Grid, MapInfo, error) {
	var row struct {
		MapInfo
		Data []byte `db:"data"`
	}
	err := s.conn.Get(&row, `SELECT id, name, seed, width, height, wrapping,
		version, size, created_at, data FROM maps WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, MapInfo{}, fmt.Errorf("load %s: %w", id, ErrMapNotFound)
	}
	if err != nil {
		return nil, MapInfo{}, fmt.Errorf("load %s: %w", id, err)
	}

	g, err := Decode(bytes.NewReader(row.Data), types)
	if err != nil {
		return nil, MapInfo{}, fmt.Errorf("load %s: %w", id, err)
	}
	return g, row.MapInfo, nil
}

// ListMaps returns every archived map, newest first.
func (s *Store) ListMaps() ([]MapInfo, error) {
	var maps []MapInfo
	err := s.conn.Select(&maps, `SELECT id, name, seed, width, height, wrapping,
		version, size, created_at FROM maps ORDER BY created_at DESC, id`)
	return maps, err
}

// DeleteMap removes an archived map.
func (s *Store) DeleteMap(id string) error {
	res, err := s.conn.Exec("DELETE FROM maps WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrMapNotFound)
	}
	return nil
}

// SaveMeta stores a key-value pair in archive metadata.
func (s *Store) SaveMeta(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO map_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (s *Store) GetMeta(key string) (string, error) {
	var value string
	err := s.conn.Get(&value, "SELECT value FROM map_meta WHERE key = ?", key)
	return value, err
}
