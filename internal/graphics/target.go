package graphics

// Target is an off-screen RGB16F color attachment. The position-map pass
// renders into it and the raycast pass samples it.
type Target struct {
	dev           Device
	FBO           uint32
	Texture       uint32
	Width, Height int
}

func NewTarget(dev Device, width, height int) (*Target, error) {
	fbo, tex, err := dev.CreateColorTarget(width, height)
	if err != nil {
		return nil, err
	}
	return &Target{dev: dev, FBO: fbo, Texture: tex, Width: width, Height: height}, nil
}

// Resize reallocates the attachment storage. Zero sizes (minimised window)
// and unchanged sizes are ignored.
func (t *Target) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if width == t.Width && height == t.Height {
		return false
	}
	t.dev.ResizeColorTarget(t.Texture, width, height)
	t.Width, t.Height = width, height
	return true
}

// Bind directs rendering into the target and sets the viewport to its size.
func (t *Target) Bind() {
	t.dev.BindFramebuffer(t.FBO)
	t.dev.Viewport(t.Width, t.Height)
}

// Unbind restores the default framebuffer.
func (t *Target) Unbind() {
	t.dev.BindFramebuffer(0)
}

func (t *Target) Delete() {
	if t.Texture != 0 {
		t.dev.DeleteTexture(t.Texture)
		t.Texture = 0
	}
	if t.FBO != 0 {
		t.dev.DeleteFramebuffer(t.FBO)
		t.FBO = 0
	}
}
