package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/runningman84/status-display/pkg/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// LineHeight is the vertical distance between text lines in pixels
const LineHeight = 11

const (
	DiskUnavailable    = "Disk: unavailable"
	IPUnavailable      = "IP: unavailable"
	ClientsUnavailable = "Clients: unavailable"
)

var (
	off = image.NewUniform(color.Black)
	on  = image.NewUniform(color.White)
)

// TextDrawer draws a single line of text with its top-left corner at origin.
// Text falling outside dst is clipped.
type TextDrawer interface {
	DrawText(dst draw.Image, origin image.Point, text string)
}

// FontDrawer draws text with a bitmap font face
type FontDrawer struct {
	Face font.Face
}

// NewFontDrawer returns a drawer using the fixed-width 7x13 bitmap font
func NewFontDrawer() *FontDrawer {
	return &FontDrawer{Face: basicfont.Face7x13}
}

// DrawText implements TextDrawer
func (f *FontDrawer) DrawText(dst draw.Image, origin image.Point, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  on,
		Face: f.Face,
		Dot:  fixed.P(origin.X, origin.Y+f.Face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// NewCanvas returns a blank 1-bit canvas in the SSD1306's native layout
func NewCanvas(width, height int) *image1bit.VerticalLSB {
	return image1bit.NewVerticalLSB(image.Rect(0, 0, width, height))
}

// Renderer draws snapshots onto a fixed-size canvas
type Renderer struct {
	width  int
	height int
	text   TextDrawer
}

// NewRenderer creates a renderer for a width x height canvas
func NewRenderer(width, height int, text TextDrawer) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		text:   text,
	}
}

// Render clears the canvas and draws one line per fact
func (r *Renderer) Render(canvas draw.Image, snap models.Snapshot) {
	draw.Draw(canvas, image.Rect(0, 0, r.width, r.height), off, image.Point{}, draw.Src)

	for i, line := range Lines(snap) {
		r.text.DrawText(canvas, image.Pt(0, i*LineHeight), line)
	}
}

// Lines formats a snapshot as the three display lines
func Lines(snap models.Snapshot) [3]string {
	var lines [3]string

	if snap.HasDisk() {
		lines[0] = fmt.Sprintf("Disk: %.1f/%.1f GB", snap.Disk.UsedGB, snap.Disk.TotalGB)
	} else {
		lines[0] = DiskUnavailable
	}

	if snap.HasAddress() {
		lines[1] = "IP: " + snap.Address
	} else {
		lines[1] = IPUnavailable
	}

	if snap.HasClients() {
		lines[2] = fmt.Sprintf("Clients: %d", snap.Clients)
	} else {
		lines[2] = ClientsUnavailable
	}

	return lines
}
