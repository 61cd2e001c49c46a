package overlay

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/echoflaresat/skycompass/colors"
)

// spriteBaseSize is the resolution the disc template is rendered at before
// being scaled to the on-screen size.
const spriteBaseSize = 64

type spriteKey struct {
	r, g, b uint8
	size    int
}

// stampSprite draws a disc sprite of the given pixel radius centered at
// (cx, cy), building and caching it on first use.
func (o *Overlay) stampSprite(cx, cy float64, radius int, c colors.Color4) {
	size := 2 * radius
	nrgba := c.ToNRGBA()
	key := spriteKey{r: nrgba.R, g: nrgba.G, b: nrgba.B, size: size}

	var sprite *image.NRGBA
	if cached, ok := o.sprites.Get(key); ok {
		sprite = cached.(*image.NRGBA)
	} else {
		sprite = scaleSprite(discSprite(c), size)
		o.sprites.Add(key, sprite)
	}

	x := int(cx+0.5) - radius
	y := int(cy+0.5) - radius
	rect := image.Rect(x, y, x+size, y+size)
	draw.Draw(o.frame, rect.Intersect(o.frame.Bounds()), sprite,
		rect.Intersect(o.frame.Bounds()).Min.Sub(image.Pt(x, y)), draw.Over)
}

// discSprite renders the disc template: a solid core with a soft radial
// falloff toward the rim.
func discSprite(c colors.Color4) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, spriteBaseSize, spriteBaseSize))
	center := float64(spriteBaseSize-1) / 2
	outer := float64(spriteBaseSize) / 2

	for y := 0; y < spriteBaseSize; y++ {
		for x := 0; x < spriteBaseSize; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			d := (dx*dx + dy*dy) / (outer * outer) // 0 center .. 1 rim

			var alpha float64
			switch {
			case d <= 0.5:
				alpha = 1
			case d >= 1:
				alpha = 0
			default:
				alpha = (1 - d) / 0.5
			}

			img.SetNRGBA(x, y, c.WithAlpha(c.A*alpha).ToNRGBA())
		}
	}
	return img
}

// scaleSprite resamples the template to the on-screen size.
func scaleSprite(src *image.NRGBA, size int) *image.NRGBA {
	if size == spriteBaseSize {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
