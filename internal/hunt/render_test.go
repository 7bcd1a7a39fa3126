package hunt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() Result {
	return Result{
		Regions: []RegionReport{
			{
				RegionName: "Rookgaard",
				RegionTag:  "rookgaard",
				HuntAreas: []AreaReport{
					{AreaID: 10, AreaName: "Rat Hunt x=100, y=100, z=7", TileCount: 3, TotalMonsters: 3, UniqueMonsterNames: []string{"Bat", "Rat"}},
					{AreaID: 11, AreaName: "Empty Hunt x=100, y=100, z=7", TileCount: 1},
				},
			},
			{
				RegionName: NotFoundRegion,
				HuntAreas: []AreaReport{
					{AreaID: 12, AreaName: "Swamp Hunt", TileCount: 2, TotalMonsters: 1, UniqueMonsterNames: []string{"Bug"}},
				},
			},
		},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Header{}, sampleResult()))

	want := `Regions: 2, hunt areas: 3

=== Rookgaard (2 hunts) ===
  [10] Rat Hunt x=100, y=100, z=7
      tiles: 3, monsters: 3
      unique: Bat, Rat
  [11] Empty Hunt x=100, y=100, z=7
      tiles: 1, monsters: 0
      unique: -

=== [NOT FOUND REGION] (1 hunts) ===
  [12] Swamp Hunt
      tiles: 2, monsters: 1
      unique: Bug
`
	assert.Equal(t, want, buf.String())
}

func TestRenderWithFingerprint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Header{Fingerprint: "abc123"}, Result{}))

	assert.Equal(t, "Snapshot: abc123\nRegions: 0, hunt areas: 0\n", buf.String())
}

func TestRenderAudit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderAudit(&buf, Audit{
		AnchorParseFailures: 2,
		SimilarNames:        []NamePair{{A: "Rat", B: "Rats", Score: 0.9555}},
	}))

	out := buf.String()
	assert.Contains(t, out, "anchor parse failures:   2\n")
	assert.Contains(t, out, "similar monster names:\n  \"Rat\" ~ \"Rats\" (0.96)\n")
}

func TestRenderAuditNoSimilarNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderAudit(&buf, Audit{}))

	assert.NotContains(t, buf.String(), "similar monster names")
	assert.Contains(t, buf.String(), "hunt tiles without spawn: 0\n")
}
