package texture

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/echoflaresat/tiff"
	"golang.org/x/exp/mmap"

	"github.com/echoflaresat/skycompass/colors"
	"github.com/echoflaresat/skycompass/vectors"

	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
)

// Texture is an equirectangular RGB image sampled by ECEF surface position.
type Texture struct {
	Width  int
	Height int
	img    image.Image
	mapped *mmap.ReaderAt
}

// DecodeFile memory-maps the file at path and decodes it, trying TIFF
// first and falling back to the registered stdlib codecs (JPEG/PNG).
func DecodeFile(path string) (image.Image, error) {
	mapped, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer mapped.Close()

	img, err := decode(io.NewSectionReader(mapped, 0, int64(mapped.Len())))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return img, nil
}

// Load opens the file at path via mmap and decodes it, trying TIFF first
// and falling back to the registered stdlib codecs (JPEG/PNG).
func Load(path string) (Texture, error) {
	mapped, err := mmap.Open(path)
	if err != nil {
		return Texture{}, fmt.Errorf("open texture %s: %w", path, err)
	}

	img, err := decode(io.NewSectionReader(mapped, 0, int64(mapped.Len())))
	if err != nil {
		mapped.Close()
		return Texture{}, fmt.Errorf("decode texture %s: %w", path, err)
	}

	slog.Info("loaded texture", "path", path,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	t := FromImage(img)
	t.mapped = mapped
	return t, nil
}

// FromImage wraps an already-decoded image. Useful for tests and for hosts
// that bring their own decoding.
func FromImage(img image.Image) Texture {
	return Texture{
		Width:  img.Bounds().Max.X,
		Height: img.Bounds().Max.Y,
		img:    img,
	}
}

func decode(r *io.SectionReader) (image.Image, error) {
	img, err := tiff.Decode(r)
	if err == nil {
		return img, nil
	}

	// fallback to image codecs
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, _, err = image.Decode(r)
	return img, err
}

// Close releases the underlying file mapping, if any.
func (t Texture) Close() error {
	if t.mapped != nil {
		return t.mapped.Close()
	}
	return nil
}

// Sample maps the ECEF position P to lon-lat texture coordinates and
// returns the nearest texel. No interpolation.
func (t Texture) Sample(P vectors.Vec3) colors.Color4 {
	x, y := t.texel(P)
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return colors.FromStandardColor(t.img.At(x, y))
}

func (t Texture) texel(P vectors.Vec3) (int, int) {
	lat := math.Atan2(P.Z, math.Sqrt(P.X*P.X+P.Y*P.Y))
	lon := math.Atan2(P.Y, P.X)
	if lon < 0 {
		lon += 2 * math.Pi
	}

	u := float64(t.Width)/2.0 + lon/(2*math.Pi)*float64(t.Width-1)
	u = math.Mod(u, float64(t.Width))
	if u < 0 {
		u += float64(t.Width)
	}
	v := (0.5 - (lat / math.Pi)) * float64(t.Height-1)

	return int(u), int(v)
}
