package cpu

const (
	Width  = 64
	Height = 32
)

// Framebuffer is the 64x32 monochrome display, row-major.
type Framebuffer [Width * Height]bool

func (fb *Framebuffer) At(x, y int) bool {
	return fb[y*Width+x]
}

func (fb *Framebuffer) Clear() {
	*fb = Framebuffer{}
}

// Lit returns the number of pixels that are on.
func (fb *Framebuffer) Lit() int {
	n := 0
	for _, on := range fb {
		if on {
			n++
		}
	}
	return n
}

// flip toggles the pixel at (x, y) and reports whether it was turned off.
func (fb *Framebuffer) flip(x, y int) bool {
	idx := y*Width + x
	erased := fb[idx]
	fb[idx] = !fb[idx]
	return erased
}
