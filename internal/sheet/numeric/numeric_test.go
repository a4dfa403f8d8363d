package numeric

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFinite(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"finite", 3.5, 3.5},
		{"nan", math.NaN(), 7},
		{"pos inf", math.Inf(1), 7},
		{"neg inf", math.Inf(-1), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Finite(tt.in, 7); got != tt.want {
				t.Fatalf("Finite(%v, 7) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 12.5, 12.5},
		{"int", 4, 4},
		{"numeric string", " 42 ", 42},
		{"empty string", "", 0},
		{"bad string", "abc", -1},
		{"true", true, 1},
		{"false", false, 0},
		{"nil", nil, -1},
		{"object", map[string]any{"a": 1}, -1},
		{"json number", json.Number("8"), 8},
		{"nan", math.NaN(), -1},
		{"inf string", "Infinity", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coerce(tt.in, -1); got != tt.want {
				t.Fatalf("Coerce(%v, -1) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(15, 0, 10); got != 10 {
		t.Fatalf("Clamp(15, 0, 10) = %v", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Fatalf("Clamp(-3, 0, 10) = %v", got)
	}
	if got := Clamp(4, 0, 10); got != 4 {
		t.Fatalf("Clamp(4, 0, 10) = %v", got)
	}
}

func TestRoundHalfUp(t *testing.T) {
	if got := Round(0.5); got != 1 {
		t.Fatalf("Round(0.5) = %v", got)
	}
	if got := Round(24.999); got != 25 {
		t.Fatalf("Round(24.999) = %v", got)
	}
	if got := Round(-0.5); got != 0 {
		t.Fatalf("Round(-0.5) = %v", got)
	}
}

func TestSigned(t *testing.T) {
	tests := map[float64]string{3: "+3", -1: "-1", 0: "+0", 2.5: "+2.5"}
	for in, want := range tests {
		if got := Signed(in); got != want {
			t.Fatalf("Signed(%v) = %q, want %q", in, got, want)
		}
	}
	if got := SignedInt(-4); got != "-4" {
		t.Fatalf("SignedInt(-4) = %q", got)
	}
	if got := SignedInt(0); got != "+0" {
		t.Fatalf("SignedInt(0) = %q", got)
	}
}

func TestFormatLargeNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{500, "500"},
		{1234.5678, "1,234.568"},
		{9999999, "9,999,999"},
		{-9999999, "-9,999,999"},
		{10000000, "1.00e7"},
		{123456789, "1.23e8"},
		{-25000000, "-2.50e7"},
		{math.NaN(), "0"},
	}
	for _, tt := range tests {
		if got := FormatLargeNumber(tt.in); got != tt.want {
			t.Fatalf("FormatLargeNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
