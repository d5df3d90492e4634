package dashboard

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Sparkline image geometry.
const (
	SparkWidth  = 280
	SparkHeight = 100
	labelHeight = 20
	barCols     = 4 // source columns per day; the last one is the gap
	barRows     = 100
)

var (
	sparkBackground = color.RGBA{0x0b, 0x10, 0x20, 0xff}
	sparkBar        = color.RGBA{0x5e, 0xea, 0xd4, 0xff}
	sparkLabel      = color.RGBA{0xa8, 0xa2, 0x9e, 0xff}
)

// RenderSparkline encodes points as a PNG bar chart with weekday labels.
// Bars are drawn one source pixel per percent and scaled up to the chart.
func RenderSparkline(w io.Writer, points []SparkPoint) error {
	dst := image.NewRGBA(image.Rect(0, 0, SparkWidth, SparkHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(sparkBackground), image.Point{}, draw.Src)
	if len(points) == 0 {
		return png.Encode(w, dst)
	}

	src := image.NewRGBA(image.Rect(0, 0, len(points)*barCols, barRows))
	for i, p := range points {
		h := int(math.Round(p.Height))
		if p.Visits > 0 && h == 0 {
			h = 1
		}
		h = min(max(h, 0), barRows)
		bar := image.Rect(i*barCols, barRows-h, (i+1)*barCols-1, barRows)
		draw.Draw(src, bar, image.NewUniform(sparkBar), image.Point{}, draw.Src)
	}
	chart := image.Rect(0, 0, SparkWidth, SparkHeight-labelHeight)
	draw.NearestNeighbor.Scale(dst, chart, src, src.Bounds(), draw.Over, nil)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(sparkLabel), Face: basicfont.Face7x13}
	slot := SparkWidth / len(points)
	for i, p := range points {
		label := weekday(p.Date)
		x := i*slot + (slot-d.MeasureString(label).Ceil())/2
		d.Dot = fixed.P(x, SparkHeight-5)
		d.DrawString(label)
	}
	return png.Encode(w, dst)
}

func weekday(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "?"
	}
	return t.Format("Mon")
}
