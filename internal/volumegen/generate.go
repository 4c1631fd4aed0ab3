// Package volumegen builds synthetic 8-bit volumes for running the viewer
// without a scanned data set.
package volumegen

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"volray/internal/graphics"
)

// Params shapes the generated density field.
type Params struct {
	Seed        int64
	Octaves     int
	Frequency   float64 // noise cycles across the volume
	Persistence float64
	Lacunarity  float64
}

// DefaultParams gives a cloudy blob that fills most of the unit cube.
func DefaultParams(seed int64) Params {
	return Params{
		Seed:        seed,
		Octaves:     4,
		Frequency:   6,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// Generate fills a width x height x depth volume, x fastest, with fractal
// noise faded out towards a sphere inscribed in the volume. Slices are
// generated in parallel; the result only depends on the dimensions and p.
func Generate(ctx context.Context, width, height, depth int, p Params) (*graphics.Volume, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%dx%d", width, height, depth)
	}

	v := &graphics.Volume{
		Width:  width,
		Height: height,
		Depth:  depth,
		Data:   make([]byte, width*height*depth),
	}

	slices := make(chan int)
	var wg sync.WaitGroup
	for range min(runtime.NumCPU(), depth) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range slices {
				fillSlice(v, z, p)
			}
		}()
	}

	var err error
feed:
	for z := range depth {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case slices <- z:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(slices)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return v, nil
}

func fillSlice(v *graphics.Volume, z int, p Params) {
	nz := (float64(z) + 0.5) / float64(v.Depth)
	row := v.Width * v.Height * z
	for y := range v.Height {
		ny := (float64(y) + 0.5) / float64(v.Height)
		for x := range v.Width {
			nx := (float64(x) + 0.5) / float64(v.Width)
			v.Data[row+y*v.Width+x] = density(nx, ny, nz, p)
		}
	}
}

// density samples the field at normalized coordinates in [0,1]^3.
func density(x, y, z float64, p Params) byte {
	dx, dy, dz := x-0.5, y-0.5, z-0.5
	r := math.Sqrt(dx*dx+dy*dy+dz*dz) * 2 // 0 at centre, 1 at the inscribed sphere
	falloff := 1 - smoothstep(0.6, 1.0, r)
	if falloff <= 0 {
		return 0
	}

	n := fractal(x*p.Frequency, y*p.Frequency, z*p.Frequency, p.Seed, p.Octaves, p.Persistence, p.Lacunarity)
	// Sharpen so empty space between the lumps stays empty
	d := smoothstep(0.45, 0.75, n) * falloff
	return byte(math.Round(d * 255))
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := math.Max(0, math.Min(1, (x-edge0)/(edge1-edge0)))
	return t * t * (3 - 2*t)
}
