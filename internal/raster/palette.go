package raster

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// RGB is an opaque pixel colour.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#RRGGBB" or "RRGGBB", case-insensitive.
func ParseHex(s string) (RGB, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return RGB{}, fmt.Errorf("colour %q: want 6 hex digits", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return RGB{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return RGB{R: b[0], G: b[1], B: b[2]}, nil
}

// Hex returns the canonical upper-case "#RRGGBB" form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Region описывает именованную область мира с уникальным цветом на растре.
type Region struct {
	Name  string
	Tag   string
	Color RGB
}

// Palette maps exact colours to regions.
type Palette struct {
	regions []Region
	byColor map[RGB]uint16
}

// NewPalette validates the table: colours and tags must be unique.
func NewPalette(regions []Region) (*Palette, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	if len(regions) >= 1<<16-1 {
		return nil, fmt.Errorf("palette too large: %d regions", len(regions))
	}

	p := &Palette{
		regions: make([]Region, len(regions)),
		byColor: make(map[RGB]uint16, len(regions)),
	}
	tags := make(map[string]struct{}, len(regions))
	for i, r := range regions {
		if r.Tag == "" {
			return nil, fmt.Errorf("region %q has no tag", r.Name)
		}
		if _, dup := tags[r.Tag]; dup {
			return nil, fmt.Errorf("duplicate region tag %q", r.Tag)
		}
		if prev, dup := p.byColor[r.Color]; dup {
			return nil, fmt.Errorf("regions %q and %q share colour %s",
				regions[prev].Tag, r.Tag, r.Color.Hex())
		}
		tags[r.Tag] = struct{}{}
		p.regions[i] = r
		p.byColor[r.Color] = uint16(i)
	}
	return p, nil
}

// Lookup returns the region for an exact colour.
func (p *Palette) Lookup(c RGB) (Region, bool) {
	i, ok := p.byColor[c]
	if !ok {
		return Region{}, false
	}
	return p.regions[i], true
}

// Regions returns the table in declaration order.
func (p *Palette) Regions() []Region {
	out := make([]Region, len(p.regions))
	copy(out, p.regions)
	return out
}

// Len returns the number of regions.
func (p *Palette) Len() int {
	return len(p.regions)
}

// ordinal: 0 означает нет региона, иначе индекс+1.
func (p *Palette) ordinal(c RGB) uint16 {
	i, ok := p.byColor[c]
	if !ok {
		return 0
	}
	return i + 1
}

func (p *Palette) byOrdinal(o uint16) Region {
	return p.regions[o-1]
}

// PaletteEntry is the textual form used by config files.
type PaletteEntry struct {
	Name  string `yaml:"name"`
	Tag   string `yaml:"tag"`
	Color string `yaml:"color"`
}

// PaletteFromEntries parses hex colours and builds a palette.
func PaletteFromEntries(entries []PaletteEntry) (*Palette, error) {
	regions := make([]Region, 0, len(entries))
	for _, e := range entries {
		c, err := ParseHex(e.Color)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", e.Tag, err)
		}
		regions = append(regions, Region{Name: e.Name, Tag: e.Tag, Color: c})
	}
	return NewPalette(regions)
}

// DefaultEntries is the palette of the reference world raster.
var DefaultEntries = []PaletteEntry{
	{Name: "Thais", Tag: "thais", Color: "#FFD800"},
	{Name: "Rookgaard", Tag: "rookgaard", Color: "#00FF21"},
	{Name: "Carlin", Tag: "carlin", Color: "#0026FF"},
	{Name: "Venore", Tag: "venore", Color: "#B200FF"},
	{Name: "Ab'Dendriel", Tag: "abdendriel", Color: "#00FFFF"},
	{Name: "Kazordoon", Tag: "kazordoon", Color: "#FF6A00"},
	{Name: "Edron", Tag: "edron", Color: "#FF0000"},
	{Name: "Darashia", Tag: "darashia", Color: "#7F3300"},
	{Name: "Ankrahmun", Tag: "ankrahmun", Color: "#FF00DC"},
	{Name: "Port Hope", Tag: "porthope", Color: "#4CFF00"},
	{Name: "Liberty Bay", Tag: "libertybay", Color: "#007F0E"},
	{Name: "Svargrond", Tag: "svargrond", Color: "#A0A0A0"},
	{Name: "Yalahar", Tag: "yalahar", Color: "#303030"},
	{Name: "Farmine", Tag: "farmine", Color: "#7F6A00"},
}

// DefaultPalette builds the reference palette.
func DefaultPalette() *Palette {
	p, err := PaletteFromEntries(DefaultEntries)
	if err != nil {
		panic("raster: invalid default palette: " + err.Error())
	}
	return p
}
