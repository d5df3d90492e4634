package dashboard

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSparkline(t *testing.T) {
	points := []SparkPoint{
		{Date: "2023-12-26"}, {Date: "2023-12-27"}, {Date: "2023-12-28"},
		{Date: "2023-12-29"}, {Date: "2023-12-30"}, {Date: "2023-12-31"},
		{Date: "2024-01-01", Visits: 4, Height: 100},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderSparkline(&buf, points))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, SparkWidth, img.Bounds().Dx())
	assert.Equal(t, SparkHeight, img.Bounds().Dy())

	// The last day fills its column to the top; the first day is empty.
	assert.Equal(t, rgba(sparkBar), rgba(img.At(250, 1)))
	assert.Equal(t, rgba(sparkBackground), rgba(img.At(10, 1)))
	assert.Equal(t, rgba(sparkBackground), rgba(img.At(10, SparkHeight-labelHeight-1)))
}

func TestRenderSparklineEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSparkline(&buf, nil))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, rgba(sparkBackground), rgba(img.At(SparkWidth/2, SparkHeight/2)))
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, "Mon", weekday("2024-01-01"))
	assert.Equal(t, "?", weekday("yesterday"))
}
