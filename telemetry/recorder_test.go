package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderStride(t *testing.T) {
	r := NewRecorder(3)
	a, b := uuid.New(), uuid.New()

	for i := 0; i < 7; i++ {
		r.Record(a, "alpha", Sample{Time: float64(i), Speed: float64(i)})
	}
	r.Record(b, "beta", Sample{Time: 0, Speed: 1})

	series := r.Series()
	require.Len(t, series, 2)
	assert.Equal(t, "alpha", series[0].Name)
	assert.Equal(t, "beta", series[1].Name)

	// Calls 0, 3 and 6 are kept
	times := make([]float64, 0, 3)
	for _, s := range series[0].Samples {
		times = append(times, s.Time)
	}
	assert.Equal(t, []float64{0, 3, 6}, times)
	assert.Equal(t, 4, r.Len())
}

func TestSummaries(t *testing.T) {
	r := NewRecorder(0)
	id := uuid.New()
	r.Record(id, "kart", Sample{Speed: 10, Ceiling: 20})
	r.Record(id, "kart", Sample{Speed: 20, Ceiling: 20})

	got := r.Summaries()
	require.Len(t, got, 1)
	assert.Equal(t, 20.0, got[0].MaxSpeed)
	assert.Equal(t, 15.0, got[0].AvgSpeed)
	assert.Equal(t, 0.5, got[0].CappedRatio)
}

func TestWritePlot(t *testing.T) {
	r := NewRecorder(1)
	assert.True(t, errors.Is(r.WritePlot(filepath.Join(t.TempDir(), "empty.png")), ErrNoSamples))

	for _, name := range []string{"a", "b"} {
		id := uuid.New()
		for i := 0; i < 50; i++ {
			tm := float64(i) * 0.1
			r.Record(id, name, Sample{Time: tm, Speed: 2 * tm, Ceiling: 9})
		}
	}

	assert.Error(t, r.WritePlot(filepath.Join(t.TempDir(), "speed.svg")))

	path := filepath.Join(t.TempDir(), "speed.png")
	require.NoError(t, r.WritePlot(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGenerateColorsDistinct(t *testing.T) {
	colors := generateColors(4)
	require.Len(t, colors, 4)
	seen := map[any]bool{}
	for _, c := range colors {
		seen[c] = true
	}
	assert.Len(t, seen, 4)
}
