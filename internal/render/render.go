// Package render rasterises the fixed-layout summary image. It is a pure
// function of its inputs: identical input produces identical PNG bytes.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	imageWidth  = 640
	imageHeight = 360

	marginX   = 24
	titleY    = 44
	totalY    = 76
	rowStartY = 116
	rowStepY  = 26
)

// Row is one ranked entry of the summary image. A nil GDP renders as "N/A".
type Row struct {
	Rank int
	Name string
	GDP  *float64
}

// Summary is everything the summary image encodes.
type Summary struct {
	Total       int64
	GeneratedAt *time.Time
	Rows        []Row
}

// Image renders the summary to PNG bytes.
func Image(s Summary) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawText(img, marginX, titleY, "Country Economic Summary")
	drawText(img, marginX, totalY, fmt.Sprintf("Total countries: %d", s.Total))

	y := rowStartY
	for _, row := range s.Rows {
		drawText(img, marginX, y, fmt.Sprintf("%2d. %-28s %s", row.Rank, row.Name, FormatGDP(row.GDP)))
		y += rowStepY
	}

	ts := "never"
	if s.GeneratedAt != nil {
		ts = s.GeneratedAt.UTC().Format(time.RFC3339)
	}
	drawText(img, marginX, imageHeight-24, "Last refreshed: "+ts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode summary image: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatGDP renders an estimated GDP value for display: "N/A" when null,
// otherwise grouped thousands with two decimals.
func FormatGDP(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return groupThousands(strconv.FormatFloat(*v, 'f', 2, 64))
}

// groupThousands inserts comma separators into the integer part of a
// plain decimal string.
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := sign + b.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}

func drawText(dst *image.RGBA, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
