package otbm

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCorrupt is returned when the container framing cannot be decoded.
var ErrCorrupt = errors.New("otbm: corrupt container")

// errShortProps: свойства узла короче, чем требует его тип.
var errShortProps = errors.New("otbm: node properties too short")

// node хранит сырой узел дерева с раскрытыми (unescaped) свойствами и детьми.
type node struct {
	typ      NodeType
	props    []byte
	children []*node
	offset   int
}

// parser разбирает фрейминг узлов поверх буфера целиком.
type parser struct {
	data []byte
	pos  int
}

// readNode reads a node whose start byte has already been consumed.
func (p *parser) readNode() (*node, error) {
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("%w: truncated node header at offset %d", ErrCorrupt, p.pos)
	}

	n := &node{typ: NodeType(p.data[p.pos]), offset: p.pos - 1}
	p.pos++

	for p.pos < len(p.data) {
		b := p.data[p.pos]
		p.pos++

		switch b {
		case escapeChar:
			if p.pos >= len(p.data) {
				return nil, fmt.Errorf("%w: dangling escape at offset %d", ErrCorrupt, p.pos-1)
			}
			n.props = append(n.props, p.data[p.pos])
			p.pos++
		case nodeStart:
			child, err := p.readNode()
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		case nodeEnd:
			return n, nil
		default:
			n.props = append(n.props, b)
		}
	}

	return nil, fmt.Errorf("%w: node type %d at offset %d is not terminated", ErrCorrupt, n.typ, n.offset)
}

// propReader читает little-endian значения из свойств узла.
type propReader struct {
	buf []byte
	off int
}

func (r *propReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *propReader) u8() (byte, error) {
	if r.remaining() < 1 {
		return 0, errShortProps
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *propReader) u16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, errShortProps
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *propReader) u32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, errShortProps
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *propReader) str() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	if r.remaining() < int(n) {
		return "", errShortProps
	}
	s := string(r.buf[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}
