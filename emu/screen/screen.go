// Package screen presents the CHIP-8 framebuffer in a pixelgl window and
// samples the keyboard as a hex keypad.
package screen

import (
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"

	"github.com/beanboi7/chyp8/emu/cpu"
)

var (
	Background = pixel.RGB(0, 0, 0)
	Foreground = pixel.RGB(1, 1, 1)
)

type Window struct {
	*pixelgl.Window
	KeyMap map[uint16]pixelgl.Button
	scale  float64
	imd    *imdraw.IMDraw
}

// NewWindow opens a window sized to the framebuffer times scale. It must be
// called from the function passed to pixelgl.Run.
func NewWindow(title string, scale float64) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, cpu.Width*scale, cpu.Height*scale),
		VSync:  true,
	}

	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, err
	}

	return &Window{
		Window: win,
		KeyMap: DefaultKeyMap(),
		scale:  scale,
		imd:    imdraw.New(nil),
	}, nil
}

// Draw repaints the whole framebuffer and swaps buffers.
func (w *Window) Draw(fb *cpu.Framebuffer) {
	w.imd.Clear()
	w.imd.Color = Foreground
	for _, r := range Rects(fb, w.scale) {
		w.imd.Push(r.Min, r.Max)
		w.imd.Rectangle(0)
	}

	w.Clear(Background)
	w.imd.Draw(w)
	w.Update()
}

// Rects returns one filled rectangle per lit pixel. pixel's origin is the
// bottom-left corner so row 0 ends up at the top.
func Rects(fb *cpu.Framebuffer, scale float64) []pixel.Rect {
	var rects []pixel.Rect
	for y := 0; y < cpu.Height; y++ {
		for x := 0; x < cpu.Width; x++ {
			if !fb.At(x, y) {
				continue
			}
			minX := float64(x) * scale
			minY := float64(cpu.Height-1-y) * scale
			rects = append(rects, pixel.R(minX, minY, minX+scale, minY+scale))
		}
	}
	return rects
}
