package render

import (
	"errors"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/bmp"

	"github.com/talgya/tidemap/internal/grid"
	"github.com/talgya/tidemap/internal/world"
)

// Default palettes.
var (
	LandGradient = MustGradient(Beaver, Buff)
	SeaGradient  = MustGradient(Azure, CoolBlack)
	FlowGradient = MustGradient(Azure, Black)
)

// ErrNoFlow is returned when a flow image is requested for a map without currents.
var ErrNoFlow = errors.New("render: map has no ocean flow layer")

// ElevationImage colours land by height and sea by depth.
func ElevationImage(m *world.UpperMap) *image.RGBA {
	w, h := m.Width(), m.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, v := range m.Elevation.Cells() {
		x, y := i%w, i/w
		if v >= 0 {
			img.SetRGBA(x, y, LandGradient.At(float64(v)))
		} else {
			img.SetRGBA(x, y, SeaGradient.At(float64(-v)))
		}
	}
	return img
}

// FlowImage colours land by height and sea by normalised current strength.
func FlowImage(m *world.UpperMap) (*image.RGBA, error) {
	if m.OceanFlow == nil {
		return nil, ErrNoFlow
	}

	strength, err := grid.NewFromFn(m.OceanFlow.Width(), m.OceanFlow.Height(), func(x, y int) float32 {
		return m.OceanFlow.Get(x, y).Length()
	})
	if err != nil {
		return nil, err
	}
	grid.Normalise(strength)

	w, h := m.Width(), m.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, v := range m.Elevation.Cells() {
		x, y := i%w, i/w
		if v >= 0 {
			img.SetRGBA(x, y, LandGradient.At(float64(v)))
		} else {
			img.SetRGBA(x, y, FlowGradient.At(float64(strength.Get(x, y))))
		}
	}
	return img, nil
}

// WriteBMP encodes img as a bitmap file at path.
func WriteBMP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
