package drawing

import (
	"math"

	"github.com/gogpu/screencast"
)

// Mass bounds used by ParamsForBrush. The smallest brush gets MinMass, the
// largest MaxMass, so thick strokes react more slowly to the cursor.
const (
	MinMass = 1.5
	MaxMass = 8.0

	DefaultDrag              = 0.35
	DefaultMinVelocity       = 0.05 // pixels per step
	DefaultPressureSmoothing = 0.4

	// minWidthFactor keeps strokes visible at near-zero pressure.
	minWidthFactor = 0.35
)

// Sample is one raw reading from a pointing device.
type Sample struct {
	Position screencast.Point
	Pressure float64 // 0..1; mice report 1 while a button is down
}

// Params configures the simulation.
type Params struct {
	Mass              float64 // > 0; the spring constant is 1/Mass
	Drag              float64 // in [0, 1); fraction of velocity lost per step
	MinVelocity       float64 // below this speed no segment is emitted
	PressureSmoothing float64 // in (0, 1]; weight of the new pressure reading
	BrushSize         screencast.BrushSize
}

// ParamsForBrush derives simulation parameters for a brush of the given
// size, interpolating the mass between MinMass and MaxMass over [lo, hi].
func ParamsForBrush(size, lo, hi screencast.BrushSize) Params {
	t := 0.0
	if hi > lo {
		t = float64(size-lo) / float64(hi-lo)
	}
	t = math.Max(0, math.Min(1, t))
	return Params{
		Mass:              MinMass + (MaxMass-MinMass)*t,
		Drag:              DefaultDrag,
		MinVelocity:       DefaultMinVelocity,
		PressureSmoothing: DefaultPressureSmoothing,
		BrushSize:         size,
	}
}

// State is the simulated pen tip.
type State struct {
	Tip      screencast.Point
	Velocity screencast.Point
	Pressure float64
}

// Rest returns a tip resting at the sample position.
func Rest(s Sample) State {
	return State{Tip: s.Position, Pressure: s.Pressure}
}

// Step integrates one sample with semi-implicit Euler: the spring force pulls
// the tip towards the raw cursor, friction damps the new velocity, and the
// tip moves by the damped velocity. It returns the new state and, unless the
// tip is (nearly) at rest, the segment it traced.
func Step(s State, p Params, in Sample) (State, Segment, bool) {
	force := in.Position.Sub(s.Tip)
	velocity := s.Velocity.Add(force.Mul(1 / p.Mass)).Mul(1 - p.Drag)
	pressure := s.Pressure + (in.Pressure-s.Pressure)*p.PressureSmoothing

	next := State{Tip: s.Tip, Velocity: velocity, Pressure: pressure}
	if speed := velocity.Length(); speed == 0 || speed < p.MinVelocity {
		return next, Segment{}, false
	}

	next.Tip = s.Tip.Add(velocity)
	half := p.width(pressure) / 2
	offset := velocity.Perp().Normalize().Mul(half)
	return next, QuadSegment(next.Tip, next.Tip.Add(offset), next.Tip.Sub(offset)), true
}

func (p Params) width(pressure float64) float64 {
	pressure = math.Max(0, math.Min(1, pressure))
	return float64(p.BrushSize) * (minWidthFactor + (1-minWidthFactor)*pressure)
}

// Clock provides the time stamps of emitted segments.
type Clock interface {
	CurrentTime() float64
}

// Emission is a segment produced by the filter together with the moment it
// became visible, read from the filter's clock.
type Emission struct {
	Segment Segment
	Time    float64
}

// Filter is the stateful form of Step used while recording.
// It is not safe for concurrent use.
type Filter struct {
	clock  Clock
	lo, hi screencast.BrushSize
	params Params
	state  State
}

// NewFilter creates a filter for brushes between lo and hi pixels.
func NewFilter(clock Clock, lo, hi screencast.BrushSize) *Filter {
	return &Filter{
		clock:  clock,
		lo:     lo,
		hi:     hi,
		params: ParamsForBrush(lo, lo, hi),
	}
}

// SetBrushSize recomputes the simulation parameters for a new brush.
func (f *Filter) SetBrushSize(size screencast.BrushSize) {
	f.params = ParamsForBrush(size, f.lo, f.hi)
}

// Params returns the current simulation parameters.
func (f *Filter) Params() Params {
	return f.params
}

// State returns the current tip state.
func (f *Filter) State() State {
	return f.state
}

// Begin places the tip at rest on the sample and returns the start dot of a
// new path.
func (f *Filter) Begin(s Sample) Emission {
	f.state = Rest(s)
	return Emission{
		Segment: StartSegment(s.Position, f.params.width(s.Pressure)/2),
		Time:    f.clock.CurrentTime(),
	}
}

// Observe feeds one raw sample to the simulation.
func (f *Filter) Observe(s Sample) (Emission, bool) {
	next, seg, ok := Step(f.state, f.params, s)
	f.state = next
	if !ok {
		return Emission{}, false
	}
	return Emission{Segment: seg, Time: f.clock.CurrentTime()}, true
}
