package volumegen

import "math"

// Deterministic 3D value noise: hashed lattice values, quintic fade,
// trilinear interpolation.

func fade(t float64) float64 {
	// 6t^5 - 15t^4 + 10t^3
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash3 is a SplitMix64 finalizer over the lattice coordinates, with a
// different odd multiplier per axis so axes are not interchangeable.
func hash3(x, y, z, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// lattice maps a lattice point to [0,1].
func lattice(x, y, z, seed int64) float64 {
	return float64(hash3(x, y, z, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise(x, y, z float64, seed int64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)
	fx, fy, fz := fade(x-x0), fade(y-y0), fade(z-z0)

	c00 := lerp(lattice(ix, iy, iz, seed), lattice(ix+1, iy, iz, seed), fx)
	c10 := lerp(lattice(ix, iy+1, iz, seed), lattice(ix+1, iy+1, iz, seed), fx)
	c01 := lerp(lattice(ix, iy, iz+1, seed), lattice(ix+1, iy, iz+1, seed), fx)
	c11 := lerp(lattice(ix, iy+1, iz+1, seed), lattice(ix+1, iy+1, iz+1, seed), fx)

	return lerp(lerp(c00, c10, fy), lerp(c01, c11, fy), fz)
}

// fractal sums octaves of value noise, normalized back to [0,1].
func fractal(x, y, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude, frequency := 1.0, 1.0
	sum, norm := 0.0, 0.0
	for i := range octaves {
		sum += valueNoise(x*frequency, y*frequency, z*frequency, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
