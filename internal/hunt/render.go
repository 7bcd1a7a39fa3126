package hunt

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// Header describes the snapshot a report was built from.
type Header struct {
	Fingerprint string
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`{{- if .Header.Fingerprint}}Snapshot: {{.Header.Fingerprint}}
{{end -}}
Regions: {{len .Regions}}, hunt areas: {{.Hunts}}
{{range .Regions}}
=== {{.RegionName}} ({{len .HuntAreas}} hunts) ===
{{- range .HuntAreas}}
  [{{.AreaID}}] {{.AreaName}}
      tiles: {{.TileCount}}, monsters: {{.TotalMonsters}}
      unique: {{if .UniqueMonsterNames}}{{join .UniqueMonsterNames ", "}}{{else}}-{{end}}
{{- end}}
{{end -}}
`))

var auditTmpl = template.Must(template.New("audit").Parse(`
--- data quality ---
tiles without area:      {{.TilesWithoutArea}}
tiles with unknown area: {{.UnknownAreaTiles}}
non-hunt areas skipped:  {{.NonHuntAreas}}
hunt areas without tiles: {{.HuntAreasNoTiles}}
anchor parse failures:   {{.AnchorParseFailures}}
anchors outside raster:  {{.RegionMisses}}
hunt tiles without spawn: {{.EmptyHuntTiles}}
{{- if .SimilarNames}}
similar monster names:
{{- range .SimilarNames}}
  {{printf "%q" .A}} ~ {{printf "%q" .B}} ({{printf "%.2f" .Score}})
{{- end}}
{{- end}}
`))

// Render writes one block per region: its name and hunt count, then every
// hunt area with id, tile count, monster count and sorted unique names.
func Render(w io.Writer, h Header, res Result) error {
	data := struct {
		Header  Header
		Regions []RegionReport
		Hunts   int
	}{h, res.Regions, res.HuntCount()}

	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// RenderAudit writes the data-quality summary.
func RenderAudit(w io.Writer, a Audit) error {
	if err := auditTmpl.Execute(w, a); err != nil {
		return fmt.Errorf("rendering audit: %w", err)
	}
	return nil
}
