package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := 5.0
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec2Round(t *testing.T) {
	got := Vec2{0.3, 0.62}.Round(4)
	want := Vec2{0.25, 0.5}
	if got != want {
		t.Errorf("Vec2.Round(4) = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Axis(t *testing.T) {
	v := Vec3{1, 2, 3}
	for axis, want := range []float64{1, 2, 3} {
		if got := v.Axis(axis); got != want {
			t.Errorf("Axis(%d) = %v, want %v", axis, got, want)
		}
	}
	if got := v.WithAxis(1, 9); got != (Vec3{1, 9, 3}) {
		t.Errorf("WithAxis(1, 9) = %v", got)
	}
}

func TestProjectOntoLine(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 0, 0}
	tests := []struct {
		p    Vec3
		want float64
	}{
		{Vec3{1, 5, 0}, 0.5},
		{Vec3{0, 1, 1}, 0},
		{Vec3{3, 0, 0}, 1.5},
	}
	for _, tt := range tests {
		if got := ProjectOntoLine(tt.p, a, b); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ProjectOntoLine(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if got := ProjectOntoLine(Vec3{1, 1, 1}, a, a); got != 0 {
		t.Errorf("degenerate line projection = %v, want 0", got)
	}
}

func TestLerpAndRound(t *testing.T) {
	if got := Lerp(2.0, 6.0, 0.25); got != 3 {
		t.Errorf("Lerp = %v, want 3", got)
	}
	if got := RoundTo(0.37, 4); got != 0.25 {
		t.Errorf("RoundTo(0.37, 4) = %v, want 0.25", got)
	}
	if got := RoundTo(0.37, 0); got != 0.37 {
		t.Errorf("RoundTo with zero divisions = %v, want unchanged", got)
	}
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp = %v, want 3", got)
	}
}
