package otbm

import (
	"bytes"
	"encoding/binary"

	"github.com/udisondev/huntatlas/internal/model"
)

// Writer builds an OTBM container in memory. It is the inverse of Parse and
// is used to produce fixture maps.
type Writer struct {
	buf   bytes.Buffer
	depth int
}

// NewWriter starts a container with the zero identifier.
func NewWriter() *Writer {
	w := &Writer{}
	w.buf.Write([]byte{0, 0, 0, 0})
	return w
}

// Start opens a node of the given type.
func (w *Writer) Start(t NodeType) *Writer {
	w.buf.WriteByte(nodeStart)
	w.buf.WriteByte(byte(t))
	w.depth++
	return w
}

// End closes the innermost open node.
func (w *Writer) End() *Writer {
	w.buf.WriteByte(nodeEnd)
	w.depth--
	return w
}

// Raw writes property bytes, escaping framing bytes.
func (w *Writer) Raw(p ...byte) *Writer {
	for _, b := range p {
		if b == nodeStart || b == nodeEnd || b == escapeChar {
			w.buf.WriteByte(escapeChar)
		}
		w.buf.WriteByte(b)
	}
	return w
}

func (w *Writer) U8(v byte) *Writer {
	return w.Raw(v)
}

func (w *Writer) U16(v uint16) *Writer {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return w.Raw(b[:]...)
}

func (w *Writer) U32(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return w.Raw(b[:]...)
}

func (w *Writer) Str(s string) *Writer {
	w.U16(uint16(len(s)))
	return w.Raw([]byte(s)...)
}

// Header writes the root node properties.
func (w *Writer) Header(h Header) *Writer {
	return w.U32(h.Version).U16(h.Width).U16(h.Height).U32(h.ItemsMajor).U32(h.ItemsMinor)
}

// TileArea opens a tile area node with its origin.
func (w *Writer) TileArea(origin model.Position) *Writer {
	return w.Start(NodeTileArea).U16(uint16(origin.X)).U16(uint16(origin.Y)).U8(byte(origin.Z))
}

// Tile writes a complete tile node: ground id, child items and optional zone.
func (w *Writer) Tile(localX, localY byte, groundID uint16, items []uint16, zones ...uint16) *Writer {
	w.Start(NodeTile).U8(localX).U8(localY)
	if groundID != 0 {
		w.U8(AttrItem).U16(groundID)
	}
	for _, id := range items {
		w.Start(NodeItem).U16(id).End()
	}
	if len(zones) > 0 {
		w.Start(NodeTileZone).U16(uint16(len(zones)))
		for _, z := range zones {
			w.U16(z)
		}
		w.End()
	}
	return w.End()
}

// Depth reports how many nodes are still open.
func (w *Writer) Depth() int {
	return w.depth
}

// Bytes returns the encoded container.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}
