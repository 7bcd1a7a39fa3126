package otbm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/udisondev/huntatlas/internal/model"
)

var otbmIdentifier = []byte("OTBM")

// ReadFile decodes the OTBM file at path.
func ReadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map %s: %w", path, err)
	}
	return Parse(data)
}

// Decode reads the whole stream and decodes it.
func Decode(r io.Reader) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading map stream: %w", err)
	}
	return Parse(data)
}

// Parse decodes an in-memory OTBM container.
func Parse(data []byte) (*Map, error) {
	if len(data) < identifierLen+2 {
		return nil, fmt.Errorf("%w: file too short (%d bytes)", ErrCorrupt, len(data))
	}

	ident := data[:identifierLen]
	if !bytes.Equal(ident, []byte{0, 0, 0, 0}) && !bytes.Equal(ident, otbmIdentifier) {
		return nil, fmt.Errorf("%w: unknown identifier %x", ErrCorrupt, ident)
	}
	if data[identifierLen] != nodeStart {
		return nil, fmt.Errorf("%w: missing root node", ErrCorrupt)
	}

	p := &parser{data: data, pos: identifierLen + 1}
	root, err := p.readNode()
	if err != nil {
		return nil, err
	}

	m := &Map{}
	if err := decodeHeader(root, &m.Header); err != nil {
		return nil, err
	}

	for _, child := range root.children {
		if child.typ != NodeMapData {
			continue
		}
		if err := decodeMapData(child, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeHeader(root *node, h *Header) error {
	r := &propReader{buf: root.props}

	var err error
	if h.Version, err = r.u32(); err != nil {
		return fmt.Errorf("%w: root header: %v", ErrCorrupt, err)
	}
	if h.Width, err = r.u16(); err != nil {
		return fmt.Errorf("%w: root header: %v", ErrCorrupt, err)
	}
	if h.Height, err = r.u16(); err != nil {
		return fmt.Errorf("%w: root header: %v", ErrCorrupt, err)
	}
	if h.ItemsMajor, err = r.u32(); err != nil {
		return fmt.Errorf("%w: root header: %v", ErrCorrupt, err)
	}
	if h.ItemsMinor, err = r.u32(); err != nil {
		return fmt.Errorf("%w: root header: %v", ErrCorrupt, err)
	}
	return nil
}

func decodeMapData(n *node, m *Map) error {
	r := &propReader{buf: n.props}
	for r.remaining() > 0 {
		attr, _ := r.u8()

		var target *string
		switch attr {
		case AttrDescription:
			s, err := r.str()
			if err != nil {
				return fmt.Errorf("%w: map description: %v", ErrCorrupt, err)
			}
			m.Description = append(m.Description, s)
			continue
		case AttrExtSpawnFile:
			target = &m.SpawnFile
		case AttrExtSpawnNpcFile:
			target = &m.NpcFile
		case AttrExtHouseFile:
			target = &m.HouseFile
		case AttrExtZoneFile:
			target = &m.ZoneFile
		default:
			return fmt.Errorf("%w: unknown map data attribute %d", ErrCorrupt, attr)
		}

		s, err := r.str()
		if err != nil {
			return fmt.Errorf("%w: map data attribute %d: %v", ErrCorrupt, attr, err)
		}
		*target = s
	}

	for _, child := range n.children {
		switch child.typ {
		case NodeTileArea:
			m.Features = append(m.Features, decodeTileArea(child))
		case NodeTowns:
			towns, err := decodeTowns(child)
			if err != nil {
				return err
			}
			m.Towns = append(m.Towns, towns...)
		case NodeWaypoints:
			wps, err := decodeWaypoints(child)
			if err != nil {
				return err
			}
			m.Waypoints = append(m.Waypoints, wps...)
		}
	}
	return nil
}

// decodeTileArea never fails: a broken tile list marks the feature malformed.
func decodeTileArea(n *node) Feature {
	f := Feature{Kind: NodeTileArea}

	r := &propReader{buf: n.props}
	x, errX := r.u16()
	y, errY := r.u16()
	z, errZ := r.u8()
	if err := errors.Join(errX, errY, errZ); err != nil {
		f.Malformed = true
		f.Reason = fmt.Sprintf("tile area at offset %d: bad origin", n.offset)
		return f
	}
	f.Origin = model.NewPosition(int32(x), int32(y), int8(z))

	if len(n.children) == 0 {
		return f
	}

	tiles := make([]Tile, 0, len(n.children))
	for _, child := range n.children {
		if child.typ != NodeTile && child.typ != NodeHouseTile {
			continue
		}
		t, err := decodeTile(child)
		if err != nil {
			f.Malformed = true
			f.Reason = fmt.Sprintf("tile at offset %d: %v", child.offset, err)
			return f
		}
		t.Z = f.Origin.Z
		tiles = append(tiles, t)
	}
	f.Tiles = tiles
	return f
}

func decodeTile(n *node) (Tile, error) {
	var t Tile
	r := &propReader{buf: n.props}

	x, err := r.u8()
	if err != nil {
		return t, err
	}
	y, err := r.u8()
	if err != nil {
		return t, err
	}
	t.X, t.Y = int32(x), int32(y)

	if n.typ == NodeHouseTile {
		if t.HouseID, err = r.u32(); err != nil {
			return t, err
		}
	}

	for r.remaining() > 0 {
		attr, _ := r.u8()
		switch attr {
		case AttrTileFlags:
			if t.Flags, err = r.u32(); err != nil {
				return t, err
			}
		case AttrItem:
			id, err := r.u16()
			if err != nil {
				return t, err
			}
			if t.TileID == 0 {
				t.TileID = id
			} else {
				t.ItemIDs = append(t.ItemIDs, id)
			}
		default:
			return t, fmt.Errorf("unknown tile attribute %d", attr)
		}
	}

	for _, child := range n.children {
		switch child.typ {
		case NodeItem:
			if err := collectItems(child, &t.ItemIDs); err != nil {
				return t, err
			}
		case NodeTileZone:
			if err := decodeZone(child, &t); err != nil {
				return t, err
			}
		}
	}
	return t, nil
}

// collectItems appends the item id and every nested container item.
func collectItems(n *node, dst *[]uint16) error {
	r := &propReader{buf: n.props}
	id, err := r.u16()
	if err != nil {
		return err
	}
	*dst = append(*dst, id)

	for _, child := range n.children {
		if child.typ != NodeItem {
			continue
		}
		if err := collectItems(child, dst); err != nil {
			return err
		}
	}
	return nil
}

func decodeZone(n *node, t *Tile) error {
	r := &propReader{buf: n.props}
	count, err := r.u16()
	if err != nil {
		return err
	}
	for i := range count {
		id, err := r.u16()
		if err != nil {
			return err
		}
		// Тайл может входить в несколько зон, area берём первую.
		if i == 0 {
			t.AreaID = uint32(id)
			t.HasArea = true
		}
	}
	return nil
}

func decodeTowns(n *node) ([]Town, error) {
	towns := make([]Town, 0, len(n.children))
	for _, child := range n.children {
		if child.typ != NodeTown {
			continue
		}
		r := &propReader{buf: child.props}
		id, errID := r.u32()
		name, errName := r.str()
		x, errX := r.u16()
		y, errY := r.u16()
		z, errZ := r.u8()
		if err := errors.Join(errID, errName, errX, errY, errZ); err != nil {
			return nil, fmt.Errorf("%w: town at offset %d: %v", ErrCorrupt, child.offset, err)
		}
		towns = append(towns, Town{
			ID:     id,
			Name:   name,
			Temple: model.NewPosition(int32(x), int32(y), int8(z)),
		})
	}
	return towns, nil
}

func decodeWaypoints(n *node) ([]Waypoint, error) {
	wps := make([]Waypoint, 0, len(n.children))
	for _, child := range n.children {
		if child.typ != NodeWaypoint {
			continue
		}
		r := &propReader{buf: child.props}
		name, errName := r.str()
		x, errX := r.u16()
		y, errY := r.u16()
		z, errZ := r.u8()
		if err := errors.Join(errName, errX, errY, errZ); err != nil {
			return nil, fmt.Errorf("%w: waypoint at offset %d: %v", ErrCorrupt, child.offset, err)
		}
		wps = append(wps, Waypoint{
			Name:     name,
			Position: model.NewPosition(int32(x), int32(y), int8(z)),
		})
	}
	return wps, nil
}
