package metrics

import (
	"math"

	"github.com/san-kum/turretlab/internal/control"
	"github.com/san-kum/turretlab/internal/dynamo"
)

// FrameSource is anything that publishes a per-tick dashboard frame,
// normally *control.Robot.
type FrameSource interface {
	Frame() control.Frame
}

// TrackingError is the RMS vision offset over the ticks the target was
// visible.
type TrackingError struct {
	src     FrameSource
	sumSq   float64
	samples int
}

func NewTrackingError(src FrameSource) *TrackingError {
	return &TrackingError{src: src}
}

func (m *TrackingError) Name() string { return "tracking_rms_deg" }

func (m *TrackingError) Observe(x dynamo.State, u dynamo.Control, t float64) {
	v := m.src.Frame().Vision
	if !v.Visible {
		return
	}
	m.sumSq += v.Offset * v.Offset
	m.samples++
}

func (m *TrackingError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *TrackingError) Reset() {
	m.sumSq = 0
	m.samples = 0
}

// Visibility is the fraction of ticks with the target in frame.
type Visibility struct {
	src     FrameSource
	visible int
	samples int
}

func NewVisibility(src FrameSource) *Visibility {
	return &Visibility{src: src}
}

func (m *Visibility) Name() string { return "visibility" }

func (m *Visibility) Observe(x dynamo.State, u dynamo.Control, t float64) {
	m.samples++
	if m.src.Frame().Vision.Visible {
		m.visible++
	}
}

func (m *Visibility) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.visible) / float64(m.samples)
}

func (m *Visibility) Reset() {
	m.visible = 0
	m.samples = 0
}

// Gauge reports the last value read from the frame, for counters the
// controllers already keep.
type Gauge struct {
	name string
	src  FrameSource
	read func(control.Frame) float64
	last float64
}

func NewGauge(name string, src FrameSource, read func(control.Frame) float64) *Gauge {
	return &Gauge{name: name, src: src, read: read}
}

func (g *Gauge) Name() string { return g.name }

func (g *Gauge) Observe(x dynamo.State, u dynamo.Control, t float64) {
	g.last = g.read(g.src.Frame())
}

func (g *Gauge) Value() float64 { return g.last }

func (g *Gauge) Reset() { g.last = 0 }
