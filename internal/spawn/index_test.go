package spawn

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/huntatlas/internal/model"
)

const monstersXML = `<?xml version="1.0"?>
<monsters>
	<monster centerx="32368" centery="32215" centerz="7" radius="3">
		<monster name="Rat" x="1" y="-2" z="7" spawntime="60" />
		<monster name="Rat" x="1" y="-2" z="7" spawntime="60" />
		<monster name="Cave Rat" x="0" y="0" z="7" spawntime="90" />
	</monster>
	<monster centerx="32400" centery="32200" centerz="8" radius="1" />
</monsters>`

const plainXML = `<spawns>
	<center x="100" y="100" z="7">
		<monster name="Bat" dx="-1" dy="3" />
	</center>
</spawns>`

func TestParseMonstersLayout(t *testing.T) {
	centers, err := Parse(strings.NewReader(monstersXML))
	require.NoError(t, err)
	require.Len(t, centers, 2)

	c := centers[0]
	assert.Equal(t, model.NewPosition(32368, 32215, 7), c.Position)
	assert.Equal(t, int32(3), c.Radius)
	require.Len(t, c.Monsters, 3)
	assert.Equal(t, Monster{Name: "Rat", DX: 1, DY: -2, SpawnTime: 60}, c.Monsters[0])

	assert.Empty(t, centers[1].Monsters)
}

func TestParsePlainLayout(t *testing.T) {
	centers, err := Parse(strings.NewReader(plainXML))
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.Equal(t, Monster{Name: "Bat", DX: -1, DY: 3}, centers[0].Monsters[0])
}

func TestParseRejectsUnknownRoot(t *testing.T) {
	_, err := Parse(strings.NewReader(`<npcs><npc name="Sam"/></npcs>`))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader(`<monsters><monster`))
	assert.Error(t, err)
}

func TestBuildIndexAbsolutePositions(t *testing.T) {
	centers, err := Parse(strings.NewReader(monstersXML))
	require.NoError(t, err)

	ix := BuildIndex(centers)

	recs := ix.At(model.NewPosition(32369, 32213, 7))
	require.Len(t, recs, 2, "co-located monsters must both be kept")
	assert.Equal(t, "Rat", recs[0].MonsterName)
	assert.Equal(t, "Rat", recs[1].MonsterName)
	assert.Equal(t, model.NewPosition(32369, 32213, 7), recs[0].Position)

	recs = ix.At(model.NewPosition(32368, 32215, 7))
	require.Len(t, recs, 1)
	assert.Equal(t, "Cave Rat", recs[0].MonsterName)

	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, 3, ix.Total())
	assert.Equal(t, 1, ix.Centers())
	assert.Equal(t, []string{"Cave Rat", "Rat"}, ix.Monsters())
}

func TestIndexAtIgnoresFloor(t *testing.T) {
	ix := BuildIndex([]Center{{
		Position: model.NewPosition(100, 100, 7),
		Monsters: []Monster{{Name: "Bat"}},
	}})

	assert.Len(t, ix.At(model.NewPosition(100, 100, 7)), 1)
	assert.Len(t, ix.At(model.NewPosition(100, 100, 6)), 1)
	assert.Empty(t, ix.At(model.NewPosition(101, 100, 7)))
}

func TestIndexEmptyAndNil(t *testing.T) {
	ix := BuildIndex(nil)
	assert.Zero(t, ix.Len())
	assert.Empty(t, ix.At(model.NewPosition(1, 1, 7)))

	var nilIndex *Index
	assert.Nil(t, nilIndex.At(model.NewPosition(1, 1, 7)))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world-monster.xml")
	require.NoError(t, os.WriteFile(path, []byte(monstersXML), 0o644))

	centers, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, centers, 2)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}
