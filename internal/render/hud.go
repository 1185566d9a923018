package render

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawHUD overlays frame metadata in the top-left corner. Purely cosmetic;
// rendering semantics are unchanged whether or not the HUD is enabled.
func drawHUD(img *image.RGBA, f *Frame) {
	lines := []string{
		fmt.Sprintf("frame %d %s", f.Seq, f.FrameID),
		fmt.Sprintf("plotted %d rejected %d clipped %d", f.Stats.Plotted, f.Stats.Rejected(), f.Stats.Clipped),
	}

	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: crosshairColor},
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(4, 4+(i+1)*face.Metrics().Height.Ceil())
		d.DrawString(line)
	}
}
