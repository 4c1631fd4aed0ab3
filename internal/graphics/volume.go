package graphics

import (
	"fmt"
	"io"
	"os"
)

// Volume is a grid of unsigned 8-bit voxels, x fastest, then y, then z.
type Volume struct {
	Width, Height, Depth int
	Data                 []byte

	// Trailing is the number of bytes past the grid that were left unread.
	Trailing int64
}

// ReadVolume reads a raw headerless volume of the given dimensions. The file
// size is checked before reading: a file shorter than width*height*depth bytes
// fails with a *ResourceError, a longer one has its tail ignored.
func ReadVolume(path string, width, height, depth int) (*Volume, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, &ResourceError{Kind: "volume", Path: path,
			Err: fmt.Errorf("invalid dimensions %dx%dx%d", width, height, depth)}
	}
	size := int64(width) * int64(height) * int64(depth)

	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Kind: "volume", Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ResourceError{Kind: "volume", Path: path, Err: err}
	}
	if info.Size() < size {
		return nil, &ResourceError{Kind: "volume", Path: path,
			Err: fmt.Errorf("file holds %d bytes, %dx%dx%d needs %d", info.Size(), width, height, depth, size)}
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, &ResourceError{Kind: "volume", Path: path, Err: err}
	}

	return &Volume{
		Width:    width,
		Height:   height,
		Depth:    depth,
		Data:     data,
		Trailing: info.Size() - size,
	}, nil
}

// VolumeTexture is a volume uploaded as a single-channel 3D texture.
type VolumeTexture struct {
	dev                  Device
	ID                   uint32
	Width, Height, Depth int
}

// UploadVolume creates the 3D texture. The voxel slice may be dropped afterwards.
func UploadVolume(dev Device, v *Volume) *VolumeTexture {
	id := dev.CreateTexture3D(v.Width, v.Height, v.Depth, v.Data)
	return &VolumeTexture{dev: dev, ID: id, Width: v.Width, Height: v.Height, Depth: v.Depth}
}

func (t *VolumeTexture) Delete() {
	if t.ID != 0 {
		t.dev.DeleteTexture(t.ID)
		t.ID = 0
	}
}
