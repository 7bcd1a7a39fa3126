package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrImageSize is returned when the raster does not match the vision size.
var ErrImageSize = errors.New("raster: unexpected image size")

// Options tunes BuildIndex.
type Options struct {
	// Workers is the number of row shards; <= 0 means GOMAXPROCS.
	Workers int
	// AllowAnySize disables the VisionSize×VisionSize check.
	AllowAnySize bool
}

// Stats counts pixel outcomes of one classification pass.
type Stats struct {
	Pixels      int
	Transparent int
	Classified  int
	Unmatched   int
}

func (s *Stats) add(o Stats) {
	s.Pixels += o.Pixels
	s.Transparent += o.Transparent
	s.Classified += o.Classified
	s.Unmatched += o.Unmatched
}

// BuildIndex classifies every pixel of img against the palette.
//
// Transparent pixels (alpha == 0) and colours missing from the palette leave
// no entry. Rows are split into contiguous shards processed concurrently;
// shards own disjoint cells, so the result is deterministic regardless of
// scheduling. On cancellation no index is returned.
func BuildIndex(ctx context.Context, img image.Image, p *Palette, t Transform, opts Options) (*Index, Stats, error) {
	var total Stats
	if p == nil {
		return nil, total, fmt.Errorf("raster: nil palette")
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if !opts.AllowAnySize && (w != int(t.VisionSize) || h != int(t.VisionSize)) {
		return nil, total, fmt.Errorf("%w: %dx%d, want %.0fx%.0f", ErrImageSize, w, h, t.VisionSize, t.VisionSize)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(h, 1))

	ix := newIndex(p, t, w, h)
	shardStats := make([]Stats, workers)
	rowsPerShard := (h + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for s := range workers {
		y0 := s * rowsPerShard
		y1 := min(y0+rowsPerShard, h)
		if y0 >= y1 {
			continue
		}
		g.Go(func() error {
			return classifyRows(gctx, img, ix, y0, y1, &shardStats[s])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, total, err
	}

	for _, st := range shardStats {
		total.add(st)
	}
	ix.count = total.Classified
	return ix, total, nil
}

func classifyRows(ctx context.Context, img image.Image, ix *Index, y0, y1 int, st *Stats) error {
	b := img.Bounds()
	nrgba, fast := img.(*image.NRGBA)

	for py := y0; py < y1; py++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := ix.cells[py*ix.width : (py+1)*ix.width]

		for px := range ix.width {
			st.Pixels++

			var c color.NRGBA
			if fast {
				off := nrgba.PixOffset(b.Min.X+px, b.Min.Y+py)
				c = color.NRGBA{R: nrgba.Pix[off], G: nrgba.Pix[off+1], B: nrgba.Pix[off+2], A: nrgba.Pix[off+3]}
			} else {
				c = color.NRGBAModel.Convert(img.At(b.Min.X+px, b.Min.Y+py)).(color.NRGBA)
			}

			if c.A == 0 {
				st.Transparent++
				continue
			}
			o := ix.palette.ordinal(RGB{R: c.R, G: c.G, B: c.B})
			if o == 0 {
				st.Unmatched++
				continue
			}
			row[px] = o
			st.Classified++
		}
	}
	return nil
}
