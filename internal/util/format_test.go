package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{51 * time.Second, "0:51"},
		{125 * time.Second, "2:05"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Fatalf("FormatDuration(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(35000); got != "35,000" {
		t.Fatalf("FormatCount(35000) = %q", got)
	}
	if got := FormatCount(999); got != "999" {
		t.Fatalf("FormatCount(999) = %q", got)
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(120, 2*time.Second); got != "60.0 fps" {
		t.Fatalf("FormatRate = %q", got)
	}
	if got := FormatRate(10, 0); got != "0.0 fps" {
		t.Fatalf("FormatRate with zero elapsed = %q", got)
	}
}

func TestFormatEnergy(t *testing.T) {
	if got := FormatEnergy(1500); got != "1.5 k" {
		t.Fatalf("FormatEnergy(1500) = %q", got)
	}
}

func TestFormatEnergySmallValues(t *testing.T) {
	if got := FormatEnergy(12.34); got != "12.3" {
		t.Fatalf("FormatEnergy(12.34) = %q", got)
	}
}
