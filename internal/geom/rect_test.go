package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsExcludesFarEdges(t *testing.T) {
	r := Rect{X: 10, Y: 5, Width: 4, Height: 2}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", Point{10, 5}, true},
		{"last cell", Point{13, 6}, true},
		{"right edge", Point{14, 5}, false},
		{"bottom edge", Point{10, 7}, false},
		{"left of origin", Point{9, 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.p))
		})
	}
}

func TestRectClampIntoKeepsStripVisible(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, Width: 80, Height: 23}
	win := Rect{X: 0, Y: 0, Width: 30, Height: 10}

	tests := []struct {
		name  string
		at    Point
		wantX int
		wantY int
	}{
		{"inside untouched", Point{20, 5}, 20, 5},
		{"above top pinned", Point{5, -4}, 5, 0},
		{"far right keeps strip", Point{200, 3}, 76, 3},
		{"far left keeps strip", Point{-200, 3}, -26, 3},
		{"below bottom keeps title row", Point{5, 90}, 5, 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := win.MoveTo(tt.at).ClampInto(bounds, 4, 1)
			assert.Equal(t, tt.wantX, got.X)
			assert.Equal(t, tt.wantY, got.Y)
			assert.Equal(t, win.Width, got.Width)
			assert.Equal(t, win.Height, got.Height)
		})
	}
}

func TestRectInsetNeverNegative(t *testing.T) {
	got := Rect{X: 0, Y: 0, Width: 1, Height: 3}.Inset(1)
	assert.Equal(t, Rect{X: 1, Y: 1, Width: 0, Height: 1}, got)
	assert.True(t, got.Empty())
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 7, Y: 3}
	q := Point{X: 2, Y: 1}
	assert.Equal(t, Point{X: 5, Y: 2}, p.Sub(q))
	assert.Equal(t, p, p.Sub(q).Add(q))
}
