package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(20, 5)

	if s.Width() != 20 || s.Height() != 5 {
		t.Fatalf("got %dx%d screen, want 20x5", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blank {
				t.Errorf("new screen cell (%d, %d) = %+v, want blank", x, y, c)
			}
		}
	}
}

func TestScreenSetColor(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColor(3, 4, '8', ColorOrange)
	if got := s.GetCell(3, 4); got.Rune != '8' || got.Color != ColorOrange {
		t.Errorf("GetCell(3, 4) = %+v, want '8' orange", got)
	}

	s.Set(3, 4, 'x')
	if got := s.GetCell(3, 4); got.Color != ColorDefault {
		t.Errorf("Set kept color %v, want default", got.Color)
	}

	// Out of bounds is silent.
	s.SetColor(-1, 0, 'A', ColorRed)
	s.SetColor(0, 100, 'A', ColorRed)
	if s.Get(-1, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(12, 3)
	s.DrawTextColor(1, 1, "Score 4", ColorYellow)

	if got := s.Row(1); got != " Score 4    " {
		t.Errorf("Row(1) = %q", got)
	}
	if c := s.GetCell(1, 1); c.Color != ColorYellow {
		t.Errorf("text color = %v, want yellow", c.Color)
	}

	// Clipping past the right edge.
	s.DrawText(10, 0, "abc")
	if got := s.Row(0); got != "          ab" {
		t.Errorf("clipped Row(0) = %q", got)
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "PAUSE", ColorDefault)
	if got := s.Row(0); got != "   PAUSE   " {
		t.Errorf("Row(0) = %q", got)
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(4, 3)
	s.DrawBox(NewRect(0, 0, 4, 3), ColorGray)

	want := "┌──┐\n│  │\n└──┘"
	if got := s.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
	if c := s.GetCell(0, 0); c.Color != ColorGray {
		t.Errorf("corner color = %v, want gray", c.Color)
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawRect(NewRect(1, 1, 3, 1), '#', ColorGreen)
	if got := s.Row(1); got != " ### " {
		t.Errorf("Row(1) = %q", got)
	}
	if got := s.Row(0); strings.TrimSpace(got) != "" {
		t.Errorf("Row(0) = %q, want blank", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(5, 2)
	s.DrawText(0, 0, "hello")
	s.Resize(3, 3)

	if s.Width() != 3 || s.Height() != 3 {
		t.Fatalf("got %dx%d after resize, want 3x3", s.Width(), s.Height())
	}
	if got := s.Row(0); got != "hel" {
		t.Errorf("Row(0) after resize = %q, want \"hel\"", got)
	}
	if got := s.Row(2); got != "   " {
		t.Errorf("Row(2) after resize = %q, want blank", got)
	}
}

func TestCenteredRect(t *testing.T) {
	tests := []struct {
		name         string
		areaW, areaH int
		w, h         int
		want         Rect
	}{
		{"fits", 80, 24, 20, 10, NewRect(30, 7, 20, 10)},
		{"too wide", 10, 24, 20, 10, NewRect(0, 7, 20, 10)},
		{"exact", 20, 10, 20, 10, NewRect(0, 0, 20, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CenteredRect(tt.areaW, tt.areaH, tt.w, tt.h); got != tt.want {
				t.Errorf("CenteredRect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}
