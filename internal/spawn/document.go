// Package spawn parses monster spawn definitions and indexes monsters by the
// absolute tile they spawn on.
package spawn

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/udisondev/huntatlas/internal/model"
)

// --- XML structures ---

// xmlSpawnDoc accepts both layouts:
//
//	<monsters><monster centerx centery centerz radius><monster name x y z spawntime/></monster></monsters>
//	<spawns><center x y z radius><monster name dx dy/></center></spawns>
type xmlSpawnDoc struct {
	XMLName xml.Name
	Centers []xmlCenter      `xml:"monster"`
	Plain   []xmlPlainCenter `xml:"center"`
}

type xmlCenter struct {
	CenterX  int32        `xml:"centerx,attr"`
	CenterY  int32        `xml:"centery,attr"`
	CenterZ  int8         `xml:"centerz,attr"`
	Radius   int32        `xml:"radius,attr"`
	Monsters []xmlMonster `xml:"monster"`
}

type xmlMonster struct {
	Name      string `xml:"name,attr"`
	X         int32  `xml:"x,attr"`
	Y         int32  `xml:"y,attr"`
	SpawnTime int32  `xml:"spawntime,attr"`
}

type xmlPlainCenter struct {
	X        int32             `xml:"x,attr"`
	Y        int32             `xml:"y,attr"`
	Z        int8              `xml:"z,attr"`
	Radius   int32             `xml:"radius,attr"`
	Monsters []xmlPlainMonster `xml:"monster"`
}

type xmlPlainMonster struct {
	Name      string `xml:"name,attr"`
	DX        int32  `xml:"dx,attr"`
	DY        int32  `xml:"dy,attr"`
	SpawnTime int32  `xml:"spawntime,attr"`
}

// --- Parsed structures ---

// Center is one spawn point with monsters placed relative to it.
type Center struct {
	Position model.Position
	Radius   int32
	Monsters []Monster
}

// Monster is a spawn entry with an offset from its center.
type Monster struct {
	Name      string
	DX, DY    int32
	SpawnTime int32
}

// ReadFile parses the spawn document at path.
func ReadFile(path string) ([]Center, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening spawns %s: %w", path, err)
	}
	defer f.Close()

	centers, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing spawns %s: %w", path, err)
	}
	return centers, nil
}

// Parse decodes a spawn document.
func Parse(r io.Reader) ([]Center, error) {
	var doc xmlSpawnDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	switch doc.XMLName.Local {
	case "monsters", "spawns":
	default:
		return nil, fmt.Errorf("unexpected root element <%s>", doc.XMLName.Local)
	}

	centers := make([]Center, 0, len(doc.Centers)+len(doc.Plain))
	for _, xc := range doc.Centers {
		c := Center{
			Position: model.NewPosition(xc.CenterX, xc.CenterY, xc.CenterZ),
			Radius:   xc.Radius,
			Monsters: make([]Monster, 0, len(xc.Monsters)),
		}
		for _, m := range xc.Monsters {
			c.Monsters = append(c.Monsters, Monster{Name: m.Name, DX: m.X, DY: m.Y, SpawnTime: m.SpawnTime})
		}
		centers = append(centers, c)
	}
	for _, xc := range doc.Plain {
		c := Center{
			Position: model.NewPosition(xc.X, xc.Y, xc.Z),
			Radius:   xc.Radius,
			Monsters: make([]Monster, 0, len(xc.Monsters)),
		}
		for _, m := range xc.Monsters {
			c.Monsters = append(c.Monsters, Monster{Name: m.Name, DX: m.DX, DY: m.DY, SpawnTime: m.SpawnTime})
		}
		centers = append(centers, c)
	}
	return centers, nil
}
