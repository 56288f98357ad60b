package core

import (
	"math"
	"testing"
)

func TestFRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     FRect
		expected bool
	}{
		{"overlapping", FRect{0, 0, 10, 10}, FRect{5, 5, 10, 10}, true},
		{"non-overlapping horizontal", FRect{0, 0, 10, 10}, FRect{15, 0, 10, 10}, false},
		{"non-overlapping vertical", FRect{0, 0, 10, 10}, FRect{0, 15, 10, 10}, false},
		{"adjacent horizontal (no overlap)", FRect{0, 0, 10, 10}, FRect{10, 0, 10, 10}, false},
		{"contained", FRect{0, 0, 20, 20}, FRect{5, 5, 5, 5}, true},
		{"fractional overlap", FRect{0, 0, 10, 10}, FRect{9.5, 9.5, 10, 10}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestFRectIntersectsCircle(t *testing.T) {
	r := FRect{X: 10, Y: 10, W: 10, H: 40}

	tests := []struct {
		name     string
		c        Vec2
		radius   float64
		expected bool
	}{
		{"center inside", Vec2{15, 30}, 1, true},
		{"left of box within radius", Vec2{5, 30}, 9, true},
		{"left of box outside radius", Vec2{0, 30}, 9, false},
		{"near corner outside", Vec2{3, 3}, 9, false},
		{"near corner inside", Vec2{5, 5}, 9, true},
		{"touching edge exactly", Vec2{1, 30}, 9, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.IntersectsCircle(tc.c, tc.radius); got != tc.expected {
				t.Errorf("IntersectsCircle(%v, %v) = %v, expected %v", tc.c, tc.radius, got, tc.expected)
			}
		})
	}
}

func TestFRectEdges(t *testing.T) {
	r := FRect{X: 5, Y: 10, W: 20, H: 15}

	if r.Right() != 25 {
		t.Errorf("Right() = %v, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %v, expected 25", r.Bottom())
	}
	if c := r.Center(); c.X != 15 || c.Y != 17.5 {
		t.Errorf("Center() = %v, expected {15 17.5}", c)
	}
}

func TestVec2(t *testing.T) {
	v := Vec2{3, 4}
	if v.Len() != 5 {
		t.Errorf("Len() = %v, expected 5", v.Len())
	}
	if got := v.Add(Vec2{1, 1}); got != (Vec2{4, 5}) {
		t.Errorf("Add() = %v, expected {4 5}", got)
	}
	if got := v.Sub(Vec2{1, 1}); got != (Vec2{2, 3}) {
		t.Errorf("Sub() = %v, expected {2 3}", got)
	}
	if got := v.Scale(0.5); math.Abs(got.X-1.5) > 1e-12 || math.Abs(got.Y-2) > 1e-12 {
		t.Errorf("Scale() = %v, expected {1.5 2}", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestSign(t *testing.T) {
	if Sign(-0.1) != -1 {
		t.Error("Sign(-0.1) should be -1")
	}
	if Sign(0) != 1 {
		t.Error("Sign(0) should be 1")
	}
	if Sign(3) != 1 {
		t.Error("Sign(3) should be 1")
	}
}
