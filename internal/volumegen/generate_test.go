package volumegen

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestHash3Deterministic(t *testing.T) {
	first := hash3(10, 20, 30, 42)
	for i := 0; i < 100; i++ {
		if h := hash3(10, 20, 30, 42); h != first {
			t.Fatalf("hash3 not deterministic: %d != %d", h, first)
		}
	}
}

func TestHash3AxesDiffer(t *testing.T) {
	seed := int64(42)
	pairs := []struct {
		name string
		a, b uint64
	}{
		{"x", hash3(1, 0, 0, seed), hash3(2, 0, 0, seed)},
		{"y", hash3(0, 1, 0, seed), hash3(0, 2, 0, seed)},
		{"z", hash3(0, 0, 1, seed), hash3(0, 0, 2, seed)},
		{"seed", hash3(1, 1, 1, 100), hash3(1, 1, 1, 200)},
		{"axis swap", hash3(1, 2, 3, seed), hash3(3, 2, 1, seed)},
	}
	for _, p := range pairs {
		if p.a == p.b {
			t.Errorf("%s: hashes should differ, both %d", p.name, p.a)
		}
	}
}

func TestValueNoiseRangeAndLattice(t *testing.T) {
	for i := 0; i < 1000; i++ {
		f := float64(i) * 0.173
		v := valueNoise(f, f*0.7, f*1.3, 7)
		if v < 0 || v > 1 {
			t.Fatalf("valueNoise(%v) = %v, outside [0,1]", f, v)
		}
	}

	// On lattice points the noise is the hashed value itself
	if got, want := valueNoise(3, 4, 5, 7), lattice(3, 4, 5, 7); got != want {
		t.Errorf("lattice point: got %v, want %v", got, want)
	}
}

func TestFractalNormalized(t *testing.T) {
	for i := 0; i < 200; i++ {
		f := float64(i) * 0.37
		v := fractal(f, f, f, 1, 5, 0.5, 2)
		if v < 0 || v > 1 {
			t.Fatalf("fractal out of range: %v", v)
		}
	}
	if v := fractal(1, 2, 3, 1, 0, 0.5, 2); v != 0 {
		t.Errorf("zero octaves should give 0, got %v", v)
	}
}

func TestGenerate(t *testing.T) {
	p := DefaultParams(1337)
	v, err := Generate(context.Background(), 32, 24, 16, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Data) != 32*24*16 {
		t.Fatalf("got %d voxels", len(v.Data))
	}

	// Corners lie outside the inscribed sphere
	corners := []int{0, 31, 32*23 + 0, 32*24*16 - 1}
	for _, i := range corners {
		if v.Data[i] != 0 {
			t.Errorf("corner voxel %d should be empty, got %d", i, v.Data[i])
		}
	}

	var filled int
	for _, b := range v.Data {
		if b > 0 {
			filled++
		}
	}
	if filled == 0 {
		t.Error("volume is empty")
	}

	again, err := Generate(context.Background(), 32, 24, 16, p)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v.Data, again.Data) {
		t.Error("same parameters should generate the same volume")
	}

	other, err := Generate(context.Background(), 32, 24, 16, DefaultParams(1))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(v.Data, other.Data) {
		t.Error("different seeds should generate different volumes")
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate(context.Background(), 0, 8, 8, DefaultParams(1)); err == nil {
		t.Error("expected error for zero width")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, 64, 64, 64, DefaultParams(1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
