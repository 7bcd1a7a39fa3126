package snapshot

import "fmt"

// Input names used in errors and logs.
const (
	InputMap    = "map"
	InputRaster = "raster"
	InputSpawns = "spawns"
	InputAreas  = "areas"
)

// FatalInputError reports a primary input that is missing, unreadable or
// fails container-level decoding. No report may be produced after it.
type FatalInputError struct {
	Input string
	Path  string
	Err   error
}

func (e *FatalInputError) Error() string {
	return fmt.Sprintf("%s input %s: %v", e.Input, e.Path, e.Err)
}

func (e *FatalInputError) Unwrap() error {
	return e.Err
}

func fatal(input, path string, err error) error {
	return &FatalInputError{Input: input, Path: path, Err: err}
}
