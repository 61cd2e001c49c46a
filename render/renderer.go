package render

import (
	"image"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/skycompass/colors"
	"github.com/echoflaresat/skycompass/earth"
	"github.com/echoflaresat/skycompass/texture"
	"github.com/echoflaresat/skycompass/vectors"
)

// Theme bundles the scene palette and texture paths. Color fields map to
// lowercase r/g/b/a keys when loaded from YAML.
type Theme struct {
	DayRim   colors.Color4 `yaml:"day_rim"`
	NightRim colors.Color4 `yaml:"night_rim"`
	Warm     colors.Color4 `yaml:"warm"`

	Day    string `yaml:"day"`
	Night  string `yaml:"night"`
	Clouds string `yaml:"clouds"`
}

// DefaultTheme returns the palette used by the CLI when no config file is
// given.
func DefaultTheme() Theme {
	return Theme{
		DayRim:   colors.New(0.25, 0.60, 1.00, 1.0),
		NightRim: colors.New(0.05, 0.07, 0.20, 0.5),
		Warm:     colors.New(1.02, 1.0, 0.98, 1.0),
	}
}

// Smoothstep performs a Hermite interpolation between 0 and 1 across [edge0, edge1].
// Returns 0 if x < edge0, 1 if x > edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0.0
		}
		return 1.0
	}

	t := (x - edge0) / (edge1 - edge0)
	if t < 0.0 {
		t = 0.0
	} else if t > 1.0 {
		t = 1.0
	}
	return t * t * (3.0 - 2.0*t)
}

// Clip clamps x into the inclusive range [min, max].
func Clip(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// blendNightDay blends day and night colors with an energy-conserving
// root-sum-square so the terminator stays smooth.
func blendNightDay(day, night colors.Color4, light float64) colors.Color4 {
	r := math.Sqrt((1-light)*night.R*night.R + light*day.R*day.R)
	g := math.Sqrt((1-light)*night.G*night.G + light*day.G*day.G)
	b := math.Sqrt((1-light)*night.B*night.B + light*day.B*day.B)
	return colors.Color4{R: r, G: g, B: b, A: 1.0}
}

// blendClouds overlays the cloud texture onto the base surface color using
// brightness-inferred alpha. light is the sunlight factor (0..1).
func blendClouds(base, cloud colors.Color4, light, boost float64) colors.Color4 {
	brightness := (cloud.R + cloud.G + cloud.B) / 3.0
	alpha := brightness * light * boost

	return colors.Color4{
		R: base.R + (1.0-base.R)*cloud.R*alpha,
		G: base.G + (1.0-base.G)*cloud.G*alpha,
		B: base.B + (1.0-base.B)*cloud.B*alpha,
		A: base.A,
	}
}

// shadeSurface returns the surface color at the ray's hit point: day/night
// blend, clouds, and ocean specular.
func shadeSurface(ctx *RayContext) colors.Color4 {
	day := ctx.TexDay.Sample(ctx.HitPoint)
	night := ctx.TexNight.Sample(ctx.HitPoint)
	clouds := ctx.TexClouds.Sample(ctx.HitPoint)

	// Soft day/night transition across the terminator.
	light := Smoothstep(-0.1, 0.1, ctx.SunLightIntensity)

	c := blendNightDay(day, night, light)
	c = blendClouds(c, clouds, light, 2.0)
	return addSpecular(ctx, c, day)
}

// addSpecular adds a sun glint via a Blinn-Phong style specular model,
// restricted to ocean pixels (blue-dominant day texels).
func addSpecular(ctx *RayContext, base, day colors.Color4) colors.Color4 {
	if ctx.SunLightIntensity <= 0 {
		return base
	}

	view := ctx.RayDirection.Scale(-1)
	half := view.Add(ctx.SunDir).Normalize()

	specAngle := Clip(ctx.SurfaceNormal.Dot(half), 0.0, 1.0)
	specular := math.Pow(specAngle, 30)
	oceanFactor := Clip((day.B-0.5*(day.R+day.G))*10.0, 0.0, 1.0)
	fresnel := math.Pow(1.0-ctx.ViewDotNormal, 2.0)

	strength := specular * oceanFactor * (0.2 + 0.8*fresnel)

	sunColor := colors.Color4{R: 1.0, G: 0.97, B: 0.9, A: 1.0}
	return base.Add(sunColor.Scale(strength))
}

// addAtmosphere tints the sample with scattered skylight: a rim glow at
// grazing angles over the surface, and a halo where the ray skims the
// atmosphere without hitting ground.
func addAtmosphere(ctx *RayContext, base colors.Color4) colors.Color4 {
	const scaleHeight = 25.0 // km
	const maxHeight = 120.0  // km

	if ctx.T > 0 {
		// Over the surface: more scattering the more grazing the view.
		grazing := math.Pow(1.0-Clip(ctx.ViewDotNormal, 0, 1), 3.0)
		lit := Smoothstep(-0.1, 0.1, ctx.SunLightIntensity)
		day := ctx.theme.DayRim.Scale(grazing * lit)
		night := ctx.theme.NightRim.Scale(grazing * (1 - lit))
		return base.Add(day).Add(night.Scale(night.A))
	}

	// Off the limb: halo from air along the closest approach.
	alt := ctx.DistToCenter - earth.Radius
	if alt < 0 || alt > maxHeight {
		return base
	}
	density := math.Exp(-alt / scaleHeight)
	lit := Smoothstep(-0.1, 0.1, ctx.RimLightFactor)
	return base.Mix(ctx.theme.DayRim, Clip(density*lit, 0, 1))
}

// GenerateSupersamplingOffsets returns n×n offsets in [-0.5, +0.5] for
// supersampling, as pairs (dx, dy) with pixel-center spacing.
func GenerateSupersamplingOffsets(n int) [][2]float64 {
	if n <= 0 {
		return nil
	}
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}

// RenderScene loads the theme's textures and ray traces one frame.
func RenderScene(
	camera Camera,
	sunDir vectors.Vec3,
	outSize int,
	supersampling int,
	theme Theme,
	numWorkers int,
) (*image.NRGBA, error) {
	texDay, err := texture.Load(theme.Day)
	if err != nil {
		return nil, err
	}
	defer texDay.Close()

	texNight, err := texture.Load(theme.Night)
	if err != nil {
		return nil, err
	}
	defer texNight.Close()

	texClouds, err := texture.Load(theme.Clouds)
	if err != nil {
		return nil, err
	}
	defer texClouds.Close()

	return RenderFrame(camera, sunDir, outSize, supersampling, theme,
		texDay, texNight, texClouds, numWorkers), nil
}

// RenderFrame ray traces one frame with already-loaded textures. Rows are
// rendered in parallel; each worker shades with its own RayContext.
func RenderFrame(
	camera Camera,
	sunDir vectors.Vec3,
	outSize int,
	supersampling int,
	theme Theme,
	texDay, texNight, texClouds texture.Texture,
	numWorkers int,
) *image.NRGBA {
	W, H := outSize, outSize
	offsets := GenerateSupersamplingOffsets(supersampling)
	invN := 1.0 / float64(len(offsets))

	img := image.NewNRGBA(image.Rect(0, 0, W, H))

	var g errgroup.Group
	if numWorkers > 0 {
		g.SetLimit(numWorkers)
	}

	for y := 0; y < H; y++ {
		g.Go(func() error {
			ctx := NewRayContext(camera.Position, sunDir, theme,
				texDay, texNight, texClouds)

			for x := 0; x < W; x++ {
				var accum colors.Color4
				for _, off := range offsets {
					rayDir := camera.ComputeRay(float64(x)+off[0], float64(y)+off[1], W, H)
					ctx.SetRayDirection(rayDir)

					c := colors.Black()
					if ctx.T > 0 {
						c = shadeSurface(ctx)
					}
					accum = accum.Add(addAtmosphere(ctx, c))
				}

				out := accum.Scale(invN).
					Mul(theme.Warm).
					BoostSaturation(1.5).
					CompositeOverBlack()
				img.SetNRGBA(x, y, out.ToNRGBA())
			}
			return nil
		})
	}

	// Workers never return errors; Wait only fences the rows.
	_ = g.Wait()
	return img
}
