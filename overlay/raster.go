package overlay

import (
	"math"

	"github.com/echoflaresat/skycompass/colors"
)

// line rasterizes a segment with a simple DDA walk, alpha-blending each
// pixel over the frame.
func (o *Overlay) line(x0, y0, x1, y1 float64, c colors.Color4) {
	dx := x1 - x0
	dy := y1 - y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy))) + 1

	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		o.blendPixel(int(x0+dx*t+0.5), int(y0+dy*t+0.5), c)
	}
}

// blendPixel composites c over the frame pixel at (x, y). Out-of-bounds
// coordinates are dropped; segments may leave the frame mid-stroke.
func (o *Overlay) blendPixel(x, y int, c colors.Color4) {
	if x < 0 || x >= o.width || y < 0 || y >= o.height {
		return
	}
	base := colors.FromStandardColor(o.frame.NRGBAAt(x, y))
	o.frame.SetNRGBA(x, y, c.Over(base).ToNRGBA())
}
