package persistence

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/talgya/hexworld/internal/world"
)

// FormatVersion is the map format version written by Encode.
const FormatVersion = 5

// Maps saved before dimensions were recorded are always this size.
const (
	legacyWidth  = 20
	legacyHeight = 15
)

// Decode errors.
var (
	ErrUnknownVersion  = errors.New("unknown map format version")
	ErrUnknownUnitType = errors.New("unknown unit type")
	ErrMalformed       = errors.New("malformed map data")
)

// UnitTypes resolves unit type names found in saved maps.
type UnitTypes map[string]world.UnitType

func (t UnitTypes) lookup(name string) (world.UnitType, bool) {
	if ut, ok := t[name]; ok {
		return ut, true
	}
	if name == world.Scout.Name {
		return world.Scout, true
	}
	return world.UnitType{}, false
}

// Encode writes g in the current format version.
func Encode(w io.Writer, g *world.Grid) error {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}

	e.int32(FormatVersion)
	e.int32(int32(g.Width))
	e.int32(int32(g.Height))
	e.bool(g.Wrapping)

	for i := 0; i < g.CellCount(); i++ {
		c := g.Cell(i)
		e.byte(uint8(c.TerrainType))
		e.byte(uint8(c.Elevation() + 127))
		e.byte(uint8(c.WaterLevel()))
		e.byte(uint8(c.UrbanLevel))
		e.byte(uint8(c.FarmLevel))
		e.byte(uint8(c.PlantLevel))
		e.byte(uint8(c.SpecialIndex()))
		e.bool(c.Walled())
		e.river(c.HasIncomingRiver(), c.IncomingRiver())
		e.river(c.HasOutgoingRiver(), c.OutgoingRiver())
		e.byte(c.RoadMask())
		e.bool(c.Explored())
	}

	units := g.Units()
	e.int32(int32(len(units)))
	for _, u := range units {
		coord := g.Cell(u.Location).Coord
		e.int32(int32(coord.X))
		e.int32(int32(coord.Z))
		e.float32(u.Orientation)
		e.string(u.Type.Name)
	}

	if e.err != nil {
		return fmt.Errorf("encode map: %w", e.err)
	}
	return bw.Flush()
}

// Decode reads a map in any supported format version and returns a new grid.
// Nothing is returned on failure, so a caller's existing grid stays intact.
func Decode(r io.Reader, types UnitTypes) (*world.Grid, error) {
	d := &decoder{r: bufio.NewReader(r)}

	version := int(d.int32())
	if d.err != nil {
		return nil, fmt.Errorf("read header: %w", d.err)
	}
	if version < 0 || version > FormatVersion {
		slog.Warn("unknown map format", "version", version, "supported", FormatVersion)
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}

	width, height, wrapping := legacyWidth, legacyHeight, false
	if version >= 1 {
		width = int(d.int32())
		height = int(d.int32())
	}
	if version >= 3 {
		wrapping = d.bool()
	}
	if d.err != nil {
		return nil, fmt.Errorf("read header: %w", d.err)
	}
	if width <= 0 || height <= 0 || width > 1<<12 || height > 1<<12 {
		return nil, fmt.Errorf("%w: map size %dx%d", ErrMalformed, width, height)
	}

	g := world.NewGrid()
	if err := g.CreateMap(width, height, wrapping); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}

	records := make([]cellRecord, g.CellCount())
	for i := range records {
		if err := d.cell(&records[i], version); err != nil {
			return nil, fmt.Errorf("read cell %d: %w", i, err)
		}
	}

	// Heights go first so river and road validation sees final neighbors.
	for i, rec := range records {
		c := g.Cell(i)
		c.TerrainType = int(rec.terrain)
		c.UrbanLevel = int(rec.urban)
		c.FarmLevel = int(rec.farm)
		c.PlantLevel = int(rec.plant)
		g.SetElevation(c, rec.elevation)
		g.SetWaterLevel(c, int(rec.water))
		g.SetSpecialIndex(c, int(rec.special))
		g.SetWalled(c, rec.walled)
	}
	for i, rec := range records {
		c := g.Cell(i)
		g.SetRiverState(c, rec.hasIn, rec.in, rec.hasOut, rec.out)
		g.SetRoadMask(c, rec.roads)
		g.SetExplored(c, rec.explored)
	}

	if version >= 4 {
		if err := d.units(g, version, types); err != nil {
			return nil, err
		}
	}
	return g, nil
}

type cellRecord struct {
	terrain, water, urban, farm, plant, special uint8
	elevation                                   int
	walled, explored                            bool
	hasIn, hasOut                               bool
	in, out                                     world.Direction
	roads                                       uint8
}

type encoder struct {
	w   *bufio.Writer
	buf [8]byte
	err error
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) byte(v uint8) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(v)
}

func (e *encoder) bool(v bool) {
	if v {
		e.byte(1)
	} else {
		e.byte(0)
	}
}

func (e *encoder) int32(v int32) {
	binary.LittleEndian.PutUint32(e.buf[:4], uint32(v))
	e.write(e.buf[:4])
}

func (e *encoder) float32(v float32) {
	binary.LittleEndian.PutUint32(e.buf[:4], math.Float32bits(v))
	e.write(e.buf[:4])
}

// river writes 128 plus the direction, or zero for no river.
func (e *encoder) river(has bool, d world.Direction) {
	if has {
		e.byte(uint8(d) + 128)
	} else {
		e.byte(0)
	}
}

// string writes a 7-bit length prefix followed by UTF-8 bytes.
func (e *encoder) string(s string) {
	n := binary.PutUvarint(e.buf[:], uint64(len(s)))
	e.write(e.buf[:n])
	e.write([]byte(s))
}

type decoder struct {
	r   *bufio.Reader
	buf [4]byte
	err error
}

func (d *decoder) byte() uint8 {
	if d.err != nil {
		return 0
	}
	var b byte
	b, d.err = d.r.ReadByte()
	return b
}

func (d *decoder) bool() bool {
	return d.byte() != 0
}

func (d *decoder) uint32() uint32 {
	if d.err != nil {
		return 0
	}
	if _, err := io.ReadFull(d.r, d.buf[:]); err != nil {
		d.err = err
		return 0
	}
	return binary.LittleEndian.Uint32(d.buf[:])
}

func (d *decoder) int32() int32 {
	return int32(d.uint32())
}

func (d *decoder) float32() float32 {
	return math.Float32frombits(d.uint32())
}

func (d *decoder) river() (bool, world.Direction) {
	b := d.byte()
	if b < 128 {
		return false, 0
	}
	if b-128 > uint8(world.NW) {
		if d.err == nil {
			d.err = fmt.Errorf("%w: river byte %d", ErrMalformed, b)
		}
		return false, 0
	}
	return true, world.Direction(b - 128)
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	n, err := binary.ReadUvarint(d.r)
	if err != nil {
		d.err = err
		return ""
	}
	if n > 1<<10 {
		d.err = fmt.Errorf("%w: string length %d", ErrMalformed, n)
		return ""
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.err = err
		return ""
	}
	return string(b)
}

func (d *decoder) cell(rec *cellRecord, version int) error {
	rec.terrain = d.byte()
	rec.elevation = int(d.byte())
	if version >= 2 {
		rec.elevation -= 127
	}
	rec.water = d.byte()
	rec.urban = d.byte()
	rec.farm = d.byte()
	rec.plant = d.byte()
	rec.special = d.byte()
	rec.walled = d.bool()
	rec.hasIn, rec.in = d.river()
	rec.hasOut, rec.out = d.river()
	rec.roads = d.byte() & 0x3f
	if version >= 5 {
		rec.explored = d.bool()
	}
	return d.err
}

func (d *decoder) units(g *world.Grid, version int, types UnitTypes) error {
	count := int(d.int32())
	if d.err != nil {
		return fmt.Errorf("read unit count: %w", d.err)
	}
	if count < 0 || count > g.CellCount() {
		return fmt.Errorf("%w: unit count %d", ErrMalformed, count)
	}
	for i := 0; i < count; i++ {
		coord := world.HexCoord{X: int(d.int32()), Z: int(d.int32())}
		orientation := d.float32()
		name := world.Scout.Name
		if version >= 5 {
			name = d.string()
		}
		if d.err != nil {
			return fmt.Errorf("read unit %d: %w", i, d.err)
		}

		ut, ok := types.lookup(name)
		if !ok {
			return fmt.Errorf("unit %d: %w: %q", i, ErrUnknownUnitType, name)
		}
		c := g.CellByCoord(coord)
		if c == nil {
			return fmt.Errorf("%w: unit %d at %s is off the map", ErrMalformed, i, coord)
		}
		if _, err := g.AddUnit(ut, 0, c, orientation); err != nil {
			return fmt.Errorf("place unit %d: %w", i, err)
		}
	}
	return nil
}
