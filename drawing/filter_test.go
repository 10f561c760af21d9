package drawing

import (
	"math"
	"testing"

	"github.com/gogpu/screencast"
)

type fakeClock float64

func (c *fakeClock) CurrentTime() float64 { return float64(*c) }

func TestParamsForBrush(t *testing.T) {
	tests := []struct {
		name string
		size screencast.BrushSize
		mass float64
	}{
		{"smallest", 2, MinMass},
		{"largest", 80, MaxMass},
		{"middle", 41, (MinMass + MaxMass) / 2},
		{"below range", 1, MinMass},
		{"above range", 200, MaxMass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParamsForBrush(tt.size, 2, 80)
			if math.Abs(p.Mass-tt.mass) > 1e-9 {
				t.Errorf("Mass = %v, want %v", p.Mass, tt.mass)
			}
			if p.BrushSize != tt.size {
				t.Errorf("BrushSize = %v, want %v", p.BrushSize, tt.size)
			}
		})
	}
}

func TestParamsForBrushDegenerateBounds(t *testing.T) {
	p := ParamsForBrush(5, 5, 5)
	if p.Mass != MinMass {
		t.Errorf("Mass = %v, want %v", p.Mass, MinMass)
	}
}

func TestFilterStationaryEmitsNothing(t *testing.T) {
	clock := fakeClock(0)
	f := NewFilter(&clock, 2, 80)

	start := Sample{Position: screencast.Pt(10, 10), Pressure: 1}
	e := f.Begin(start)
	if e.Segment.Kind != SegmentZeroLength {
		t.Fatalf("Begin kind = %v, want ZeroLength", e.Segment.Kind)
	}
	if e.Segment.Center != start.Position {
		t.Errorf("Begin center = %v, want %v", e.Segment.Center, start.Position)
	}

	for i := 0; i < 50; i++ {
		clock += 16
		if _, ok := f.Observe(start); ok {
			t.Fatalf("sample %d: stationary cursor emitted a segment", i)
		}
	}
}

func TestFilterStraightLineConverges(t *testing.T) {
	for _, size := range []screencast.BrushSize{2, 80} {
		clock := fakeClock(0)
		f := NewFilter(&clock, 2, 80)
		f.SetBrushSize(size)
		f.Begin(Sample{Position: screencast.Pt(0, 0), Pressure: 1})

		target := Sample{Position: screencast.Pt(100, 0), Pressure: 1}
		var emitted int
		for i := 0; i < 300; i++ {
			clock += 10
			e, ok := f.Observe(target)
			if !ok {
				continue
			}
			emitted++
			if math.Abs(e.Segment.Center.Y) > 1e-9 {
				t.Fatalf("size %v: segment left the line: %v", size, e.Segment.Center)
			}
			if e.Time != float64(clock) {
				t.Errorf("size %v: emission time = %v, want %v", size, e.Time, float64(clock))
			}
		}
		if emitted == 0 {
			t.Fatalf("size %v: no segments emitted", size)
		}
		if d := f.State().Tip.Distance(target.Position); d > 0.5 {
			t.Errorf("size %v: tip %v did not converge (distance %v)", size, f.State().Tip, d)
		}
	}
}

func TestStepSegmentEdge(t *testing.T) {
	p := ParamsForBrush(10, 2, 80)
	s := Rest(Sample{Position: screencast.Pt(0, 0), Pressure: 1})

	next, seg, ok := Step(s, p, Sample{Position: screencast.Pt(50, 0), Pressure: 1})
	if !ok {
		t.Fatal("expected a segment")
	}
	if seg.Kind != SegmentQuad {
		t.Errorf("Kind = %v, want Quad", seg.Kind)
	}
	if seg.Center != next.Tip {
		t.Errorf("Center = %v, want tip %v", seg.Center, next.Tip)
	}
	if w := seg.Left.Distance(seg.Right); math.Abs(w-10) > 1e-9 {
		t.Errorf("edge width = %v, want 10", w)
	}
	// Motion along X puts the edge along Y.
	if seg.Left.X != seg.Center.X || seg.Right.X != seg.Center.X {
		t.Errorf("edge not perpendicular to motion: %v %v", seg.Left, seg.Right)
	}
}

func TestStepPressureSmoothing(t *testing.T) {
	p := ParamsForBrush(10, 2, 80)
	s := State{Pressure: 0}
	next, _, _ := Step(s, p, Sample{Position: screencast.Pt(0, 0), Pressure: 1})
	if next.Pressure != p.PressureSmoothing {
		t.Errorf("Pressure = %v, want %v", next.Pressure, p.PressureSmoothing)
	}
}

func TestStepIsPure(t *testing.T) {
	p := ParamsForBrush(6, 2, 80)
	s := Rest(Sample{Position: screencast.Pt(3, 4), Pressure: 0.5})
	in := Sample{Position: screencast.Pt(30, 40), Pressure: 0.5}

	a, segA, okA := Step(s, p, in)
	b, segB, okB := Step(s, p, in)
	if a != b || segA != segB || okA != okB {
		t.Error("Step returned different results for identical input")
	}
}

func TestSegmentKindString(t *testing.T) {
	tests := []struct {
		kind SegmentKind
		want string
	}{
		{SegmentZeroLength, "ZeroLength"},
		{SegmentQuad, "Quad"},
		{SegmentKind(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPathAppendAndClone(t *testing.T) {
	p := NewPath(screencast.White)
	p.Append(StartSegment(screencast.Pt(1, 1), 2))
	p.Append(QuadSegment(screencast.Pt(2, 1), screencast.Pt(2, 0), screencast.Pt(2, 2)))

	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	if r := p.Segments[1].Radius; r != 1 {
		t.Errorf("quad radius = %v, want 1", r)
	}

	c := p.Clone()
	c.Append(StartSegment(screencast.Pt(0, 0), 1))
	if p.Len() != 2 {
		t.Error("Clone shares segments with the original")
	}
	if c.Color != p.Color {
		t.Error("Clone lost the color")
	}
}
