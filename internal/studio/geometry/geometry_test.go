package geometry

import (
	"math"
	"testing"

	"design-studio/internal/studio/models"

	"github.com/stretchr/testify/assert"
)

func TestWallVector_Horizontal(t *testing.T) {
	v := WallVector(models.Wall{P1: models.Point{X: 0, Y: 0}, P2: models.Point{X: 4000, Y: 0}, Thickness: 200})

	assert.InDelta(t, 1, v.DX, 1e-12)
	assert.InDelta(t, 0, v.DY, 1e-12)
	assert.InDelta(t, 0, v.NX, 1e-12)
	assert.InDelta(t, 1, v.NY, 1e-12)
	assert.InDelta(t, 4000, v.Len, 1e-9)
}

func TestWallVector_Vertical(t *testing.T) {
	v := WallVector(models.Wall{P1: models.Point{X: 0, Y: 0}, P2: models.Point{X: 0, Y: 3000}})

	assert.InDelta(t, 0, v.DX, 1e-12)
	assert.InDelta(t, 1, v.DY, 1e-12)
	assert.InDelta(t, -1, v.NX, 1e-12)
	assert.InDelta(t, 0, v.NY, 1e-12)
}

func TestWallVector_Degenerate(t *testing.T) {
	p := models.Point{X: 1500, Y: 1500}
	v := WallVector(models.Wall{P1: p, P2: p, Thickness: 200})

	for _, f := range []float64{v.DX, v.DY, v.NX, v.NY, v.Len} {
		assert.False(t, math.IsNaN(f))
		assert.False(t, math.IsInf(f, 0))
	}
	assert.Equal(t, Vector{DX: 1, DY: 0, NX: 0, NY: 1, Len: 0}, v)
}

func TestProjectPointOnWall_ClampsToInterior(t *testing.T) {
	w := models.Wall{P1: models.Point{X: 0, Y: 0}, P2: models.Point{X: 1000, Y: 0}}

	tests := []struct {
		name  string
		p     models.Point
		wantT float64
		wantD float64
	}{
		{"middle", models.Point{X: 500, Y: 300}, 0.5, 300},
		{"before start", models.Point{X: -200, Y: 0}, 0.05, 250},
		{"past end", models.Point{X: 2000, Y: 0}, 0.95, 1050},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := ProjectPointOnWall(tt.p, w)
			assert.InDelta(t, tt.wantT, pr.T, 1e-9)
			assert.InDelta(t, tt.wantD, pr.Distance, 1e-9)
			assert.InDelta(t, 0, pr.Closest.Y, 1e-9)
		})
	}
}

func TestProjectPointOnWall_DegenerateWall(t *testing.T) {
	p := models.Point{X: 10, Y: 10}
	pr := ProjectPointOnWall(models.Point{X: 13, Y: 14}, models.Wall{P1: p, P2: p})

	assert.Equal(t, PosMin, pr.T)
	assert.Equal(t, p, pr.Closest)
	assert.InDelta(t, 5, pr.Distance, 1e-9)
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 100.0, Snap(149, 100))
	assert.Equal(t, 200.0, Snap(150, 100))
	assert.Equal(t, -100.0, Snap(-120, 100))
	assert.Equal(t, 0.0, Snap(-20, 100))
	assert.Equal(t, 37.5, Snap(37.5, 0))
}

func TestSnap_Idempotent(t *testing.T) {
	grids := []float64{1, 7, 50, 100, 1000, 0.25}
	values := []float64{-12345.678, -1, -0.4, 0, 0.5, 49.999, 50, 99.5, 1234.5, 987654.321}

	for _, g := range grids {
		for _, v := range values {
			once := Snap(v, g)
			assert.Equal(t, once, Snap(once, g), "v=%v g=%v", v, g)
		}
	}
}

func TestLerpAndDistance(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, models.Point{X: 2, Y: 4}, LerpPoint(models.Point{}, models.Point{X: 4, Y: 8}, 0.5))
	assert.Equal(t, 5.0, Distance(models.Point{}, models.Point{X: 3, Y: 4}))
}

func TestRotatePoint_QuarterTurn(t *testing.T) {
	p := RotatePoint(models.Point{X: 10, Y: 0}, models.Point{}, 90)

	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)
}

func TestContainsAxisAligned_IgnoresRotation(t *testing.T) {
	f := models.Furniture{X: 0, Y: 0, W: 2200, H: 900, Rot: 90}

	// точка внутри исходного прямоугольника, но вне повёрнутого
	assert.True(t, ContainsAxisAligned(f, models.Point{X: 100, Y: 100}))
	assert.False(t, ContainsAxisAligned(f, models.Point{X: 1100, Y: 1000}))
}
