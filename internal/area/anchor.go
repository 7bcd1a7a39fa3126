package area

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/udisondev/huntatlas/internal/model"
)

// huntMarker marks monster-farming areas. Case-sensitive.
const huntMarker = "Hunt"

// anchorPattern is the only place the coordinates-in-name convention lives.
var anchorPattern = regexp.MustCompile(`x\s*=\s*(\d+),\s*y\s*=\s*(\d+),\s*z\s*=\s*(\d+)`)

// IsHunt reports whether the area name marks a hunt area.
func IsHunt(name string) bool {
	return strings.Contains(name, huntMarker)
}

// ExtractHuntAnchor recovers the "x=<int>, y=<int>, z=<int>" anchor embedded in
// an area name. Values that do not fit the coordinate types count as no match.
func ExtractHuntAnchor(name string) (model.Position, bool) {
	m := anchorPattern.FindStringSubmatch(name)
	if m == nil {
		return model.Position{}, false
	}

	x, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return model.Position{}, false
	}
	y, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return model.Position{}, false
	}
	z, err := strconv.ParseInt(m[3], 10, 8)
	if err != nil {
		return model.Position{}, false
	}
	return model.NewPosition(int32(x), int32(y), int8(z)), true
}
