package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/roach88/pngcard/internal/payload"
)

const (
	DefaultWidth  = 400
	DefaultHeight = 600

	// MaxDescriptionLines is the default number of description lines drawn
	// on a placeholder before the text is clipped.
	MaxDescriptionLines = 8

	// MaxSourcePixels bounds the declared size of artwork that is decoded.
	// Larger images are drawn as a placeholder instead.
	MaxSourcePixels = 64 << 20
)

// Placeholder layout, in pixels.
const (
	margin       = 16
	headerHeight = 40
	nameOffset   = 32
	descOffset   = 64
	lineHeight   = 18
)

// Card is the displayable part of a card.
type Card struct {
	Kind        payload.Kind
	Name        string
	Description string
}

// Palette colors the placeholder.
type Palette struct {
	Top        color.RGBA
	Bottom     color.RGBA
	Header     color.RGBA
	HeaderText color.RGBA
	Text       color.RGBA
}

var DefaultPalette = Palette{
	Top:        color.RGBA{R: 0x2b, G: 0x32, B: 0x4a, A: 0xff},
	Bottom:     color.RGBA{R: 0x0f, G: 0x12, B: 0x1c, A: 0xff},
	Header:     color.RGBA{R: 0xc8, G: 0x8a, B: 0x2e, A: 0xff},
	HeaderText: color.RGBA{R: 0x14, G: 0x10, B: 0x08, A: 0xff},
	Text:       color.RGBA{R: 0xee, G: 0xea, B: 0xe0, A: 0xff},
}

// Renderer draws card images. The zero value is not usable; call New.
// A Renderer is safe for concurrent use once configured.
type Renderer struct {
	Width    int
	Height   int
	MaxLines int
	Face     font.Face
	Measurer TextMeasurer
	Palette  Palette
	Logger   *slog.Logger
}

// New returns a Renderer with the default 400x600 canvas and the built-in
// 7x13 bitmap face.
func New() *Renderer {
	return &Renderer{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		MaxLines: MaxDescriptionLines,
		Face:     basicfont.Face7x13,
		Measurer: FaceMeasurer{Face: basicfont.Face7x13},
		Palette:  DefaultPalette,
	}
}

// Render produces the card image. When src decodes as an image it is
// center-cropped to the canvas aspect ratio and scaled to fill it; otherwise
// a placeholder is drawn.
func (r *Renderer) Render(src []byte, card Card) image.Image {
	if len(src) > 0 {
		if cfg, format, err := image.DecodeConfig(bytes.NewReader(src)); err == nil &&
			int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
			r.logger().Warn("artwork too large, using placeholder",
				"format", format, "width", cfg.Width, "height", cfg.Height)
			return r.placeholder(card)
		}
		img, format, err := image.Decode(bytes.NewReader(src))
		switch {
		case err != nil:
			r.logger().Debug("artwork not decodable, using placeholder", "error", err)
		case img.Bounds().Empty():
			r.logger().Debug("artwork is empty, using placeholder", "format", format)
		default:
			return r.fromImage(img)
		}
	}
	return r.placeholder(card)
}

func (r *Renderer) fromImage(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	crop := CropRect(src.Bounds(), r.Width, r.Height)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

// CropRect returns the largest rectangle of bounds with the aspect ratio
// w:h, centered on the axis that has to be cut. The crop is never thinner
// than one pixel.
func CropRect(bounds image.Rectangle, w, h int) image.Rectangle {
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW*h > srcH*w {
		cropW := max(srcH*w/h, 1)
		x0 := bounds.Min.X + (srcW-cropW)/2
		return image.Rect(x0, bounds.Min.Y, x0+cropW, bounds.Max.Y)
	}
	cropH := max(srcW*h/w, 1)
	y0 := bounds.Min.Y + (srcH-cropH)/2
	return image.Rect(bounds.Min.X, y0, bounds.Max.X, y0+cropH)
}

func (r *Renderer) placeholder(card Card) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	p := r.Palette

	for y := 0; y < r.Height; y++ {
		c := lerp(p.Top, p.Bottom, y, r.Height-1)
		for x := 0; x < r.Width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	draw.Draw(img, image.Rect(0, 0, r.Width, headerHeight), image.NewUniform(p.Header), image.Point{}, draw.Src)

	textW := r.Width - 2*margin
	m := r.measurer()
	r.drawText(img, p.HeaderText, margin, headerHeight/2+5, Truncate(m, card.Kind.Label(), textW))

	name := card.Name
	if name == "" {
		name = "Untitled"
	}
	r.drawText(img, p.Text, margin, headerHeight+nameOffset, Truncate(m, name, textW))

	for i, line := range Wrap(m, card.Description, textW, r.MaxLines) {
		r.drawText(img, p.Text, margin, headerHeight+descOffset+i*lineHeight, line)
	}
	return img
}

func (r *Renderer) drawText(dst draw.Image, c color.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: r.Face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (r *Renderer) measurer() TextMeasurer {
	if r.Measurer != nil {
		return r.Measurer
	}
	return FaceMeasurer{Face: r.Face}
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func lerp(a, b color.RGBA, i, n int) color.RGBA {
	if n <= 0 {
		return a
	}
	mix := func(x, y uint8) uint8 {
		return uint8((int(x)*(n-i) + int(y)*i) / n)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Encode encodes img as PNG.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode card image: %w", err)
	}
	return buf.Bytes(), nil
}
