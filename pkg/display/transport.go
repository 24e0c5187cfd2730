package display

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
)

// Transport pushes a rendered canvas to a physical or virtual display
type Transport interface {
	// Clear blanks the display
	Clear() error
	// Show pushes img to the display
	Show(img image.Image) error
	// Close releases the display
	Close() error
}

// TextTransport prints frames as ASCII art, one character per pixel
type TextTransport struct {
	w      io.Writer
	width  int
	height int
}

// NewTextTransport creates a transport writing width x height frames to w
func NewTextTransport(w io.Writer, width, height int) *TextTransport {
	return &TextTransport{w: w, width: width, height: height}
}

// Clear prints an empty frame
func (t *TextTransport) Clear() error {
	return t.Show(image.NewGray(image.Rect(0, 0, t.width, t.height)))
}

// Show prints img with '#' for lit pixels and '.' for dark ones
func (t *TextTransport) Show(img image.Image) error {
	bw := bufio.NewWriter(t.w)
	border := "+" + strings.Repeat("-", t.width) + "+\n"

	if _, err := bw.WriteString(border); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	for y := 0; y < t.height; y++ {
		bw.WriteByte('|')
		for x := 0; x < t.width; x++ {
			if isLit(img.At(x, y)) {
				bw.WriteByte('#')
			} else {
				bw.WriteByte('.')
			}
		}
		bw.WriteString("|\n")
	}
	bw.WriteString(border)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Close implements Transport
func (t *TextTransport) Close() error {
	return nil
}

func isLit(c color.Color) bool {
	g := color.GrayModel.Convert(c).(color.Gray)
	return g.Y >= 0x80
}
