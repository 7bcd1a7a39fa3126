package area

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/huntatlas/internal/model"
)

const areasXML = `<?xml version="1.0"?>
<areas>
	<area id="3" name="Rat Hunt x=100, y=100, z=7" />
	<area id="1" name="Thais Depot" />
	<area id="7" name="Swamp Hunt (no anchor)" />
	<area id="3" name="Rat Hunt x=101, y=100, z=7" />
</areas>`

func TestDecodePreservesOrder(t *testing.T) {
	c, err := Decode(strings.NewReader(areasXML))
	require.NoError(t, err)

	assert.Equal(t, []uint32{3, 1, 7}, c.Order())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []uint32{3}, c.Duplicates())

	d, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Rat Hunt x=101, y=100, z=7", d.Name)
}

func TestCatalogNameUnknown(t *testing.T) {
	c := NewCatalog([]Definition{{ID: 1, Name: "Thais Depot"}})

	assert.Equal(t, "Thais Depot", c.Name(1))
	assert.Equal(t, UnknownName, c.Name(42))
}

func TestNilCatalogIsEmpty(t *testing.T) {
	var c *Catalog

	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, UnknownName, c.Name(1))
	assert.Empty(t, c.Order())
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Duplicates())
}

func TestDecodeRejectsBadRoot(t *testing.T) {
	_, err := Decode(strings.NewReader(`<zones><zone id="1"/></zones>`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`<areas><area id="x"/></areas>`))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "areas.xml")
	require.NoError(t, os.WriteFile(path, []byte(areasXML), 0o644))

	c, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestExtractHuntAnchor(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   model.Position
		wantOK bool
	}{
		{"plain", "Some Hunt Area x=100, y=200, z=7", model.NewPosition(100, 200, 7), true},
		{"spaces around equals", "Hunt x = 32321 ,y=32220, z = 7", model.Position{}, false},
		{"spaces after comma", "Hunt x = 32321, y = 32220,   z = 7", model.NewPosition(32321, 32220, 7), true},
		{"no anchor", "Swamp Hunt", model.Position{}, false},
		{"partial", "Hunt x=1, y=2", model.Position{}, false},
		{"floor overflow", "Hunt x=1, y=2, z=300", model.Position{}, false},
		{"upper case keys", "Hunt X=1, Y=2, Z=3", model.Position{}, false},
		{"embedded", "[Rook] Rat Hunt (x=32100, y=32200, z=8) north", model.NewPosition(32100, 32200, 8), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractHuntAnchor(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsHunt(t *testing.T) {
	assert.True(t, IsHunt("Rat Hunt"))
	assert.True(t, IsHunt("Hunting Grounds"))
	assert.False(t, IsHunt("rat hunt"))
	assert.False(t, IsHunt(UnknownName))
}
