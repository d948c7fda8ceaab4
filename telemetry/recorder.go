// Package telemetry records per-kart speed samples during a race and renders them as plots
package telemetry

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrNoSamples = errors.New("telemetry: no samples")

// Sample is one kart's state at one tick
type Sample struct {
	Time    float64
	Speed   float64
	Ceiling float64 // Max speed envelope
	Lap     int
}

// Series is the sample history of one kart
type Series struct {
	ID      uuid.UUID
	Name    string
	Samples []Sample
}

// Recorder accumulates series, sampling every Stride-th call per kart
type Recorder struct {
	stride int
	calls  map[uuid.UUID]int
	series map[uuid.UUID]*Series
	order  []uuid.UUID
}

// NewRecorder creates a recorder keeping one sample in stride, stride < 1 keeps all
func NewRecorder(stride int) *Recorder {
	return &Recorder{
		stride: max(1, stride),
		calls:  make(map[uuid.UUID]int),
		series: make(map[uuid.UUID]*Series),
	}
}

// Record adds a sample for kart id
func (r *Recorder) Record(id uuid.UUID, name string, s Sample) {
	n := r.calls[id]
	r.calls[id] = n + 1
	if n%r.stride != 0 {
		return
	}

	ser, ok := r.series[id]
	if !ok {
		ser = &Series{ID: id, Name: name}
		r.series[id] = ser
		r.order = append(r.order, id)
	}
	ser.Samples = append(ser.Samples, s)
}

// Series returns the recorded series in first-seen order
func (r *Recorder) Series() []*Series {
	out := make([]*Series, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.series[id])
	}
	return out
}

// Len returns the total number of stored samples
func (r *Recorder) Len() int {
	n := 0
	for _, s := range r.series {
		n += len(s.Samples)
	}
	return n
}

// Summary is the per-kart aggregate of a series
type Summary struct {
	Name     string
	MaxSpeed float64
	AvgSpeed float64
	// CappedRatio is the share of samples driving within 1% of the ceiling
	CappedRatio float64
}

// Summaries aggregates every series, sorted by name
func (r *Recorder) Summaries() []Summary {
	out := make([]Summary, 0, len(r.series))
	for _, ser := range r.series {
		if len(ser.Samples) == 0 {
			continue
		}
		s := Summary{Name: ser.Name}
		capped := 0
		for _, sm := range ser.Samples {
			s.MaxSpeed = math.Max(s.MaxSpeed, sm.Speed)
			s.AvgSpeed += sm.Speed
			if sm.Ceiling > 0 && sm.Speed >= 0.99*sm.Ceiling {
				capped++
			}
		}
		s.AvgSpeed /= float64(len(ser.Samples))
		s.CappedRatio = float64(capped) / float64(len(ser.Samples))
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// WritePlot renders speed (solid) and ceiling (dashed) of every kart into one PNG at path
func (r *Recorder) WritePlot(path string) error {
	if r.Len() == 0 {
		return ErrNoSamples
	}
	if ext := filepath.Ext(path); ext != ".png" {
		return fmt.Errorf("plot file must have .png extension, got %q", ext)
	}

	p := plot.New()
	p.Title.Text = "Kart speed vs max speed envelope"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Speed (units/s)"

	series := r.Series()
	colors := generateColors(len(series))
	for i, ser := range series {
		speedPts := make(plotter.XYs, 0, len(ser.Samples))
		ceilPts := make(plotter.XYs, 0, len(ser.Samples))
		for _, s := range ser.Samples {
			speedPts = append(speedPts, plotter.XY{X: s.Time, Y: s.Speed})
			ceilPts = append(ceilPts, plotter.XY{X: s.Time, Y: s.Ceiling})
		}

		speedLine, err := plotter.NewLine(speedPts)
		if err != nil {
			return fmt.Errorf("%s speed line: %w", ser.Name, err)
		}
		speedLine.Color = colors[i]
		speedLine.Width = vg.Points(1)

		ceilLine, err := plotter.NewLine(ceilPts)
		if err != nil {
			return fmt.Errorf("%s ceiling line: %w", ser.Name, err)
		}
		ceilLine.Color = colors[i]
		ceilLine.Width = vg.Points(0.5)
		ceilLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

		p.Add(speedLine, ceilLine)
		p.Legend.Add(ser.Name, speedLine)
	}
	p.Legend.Top = true

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save speed plot: %w", err)
	}
	return nil
}

// generateColors spreads n hues around the colour wheel
func generateColors(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		r, g, b := hslToRGB(float64(i)/float64(max(1, n)), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	q := l * (1 + s)
	if l >= 0.5 {
		q = l + s - l*s
	}
	p := 2*l - q
	return toByte(hueToRGB(p, q, h+1.0/3)), toByte(hueToRGB(p, q, h)), toByte(hueToRGB(p, q, h-1.0/3))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
