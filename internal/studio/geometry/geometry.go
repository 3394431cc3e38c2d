package geometry

import (
	"math"

	"design-studio/internal/studio/models"
)

// ============================================================
// Constants
// ============================================================

const (
	GridSize = 100.0 // шаг привязки, мм

	PosMin = 0.05 // проём никогда не касается конца стены
	PosMax = 0.95

	degenerateLen = 0.01
)

// ============================================================
// Scalar & point helpers
// ============================================================

func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func LerpPoint(a, b models.Point, t float64) models.Point {
	return models.Point{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

func Distance(a, b models.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampPos держит параметрическую позицию проёма внутри [PosMin, PosMax].
func ClampPos(t float64) float64 {
	if math.IsNaN(t) {
		return PosMin
	}
	return Clamp(t, PosMin, PosMax)
}

// Snap округляет значение до ближайшего кратного grid.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	s := math.Round(v/grid) * grid
	if s == 0 {
		return 0 // без -0
	}
	return s
}

func SnapPoint(p models.Point, grid float64) models.Point {
	return models.Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// ============================================================
// Wall geometry
// ============================================================

// Vector — единичное направление стены, нормаль (направление, повёрнутое на 90°)
// и длина.
type Vector struct {
	DX, DY float64
	NX, NY float64
	Len    float64
}

// WallVector для вырожденной стены (Len < 0.01) возвращает направление (1,0)
// и нормаль (0,1).
func WallVector(w models.Wall) Vector {
	dx := w.P2.X - w.P1.X
	dy := w.P2.Y - w.P1.Y
	length := math.Hypot(dx, dy)

	if length < degenerateLen || math.IsNaN(length) || math.IsInf(length, 0) {
		return Vector{DX: 1, DY: 0, NX: 0, NY: 1, Len: 0}
	}

	ux, uy := dx/length, dy/length
	return Vector{DX: ux, DY: uy, NX: -uy, NY: ux, Len: length}
}

// PointAt возвращает точку стены на параметре t (без ограничения t).
func PointAt(w models.Wall, t float64) models.Point {
	v := WallVector(w)
	return models.Point{X: w.P1.X + v.DX*v.Len*t, Y: w.P1.Y + v.DY*v.Len*t}
}

// Midpoint стены.
func Midpoint(w models.Wall) models.Point {
	return LerpPoint(w.P1, w.P2, 0.5)
}

type Projection struct {
	T        float64
	Distance float64
	Closest  models.Point
}

// ProjectPointOnWall проецирует точку на бесконечную прямую стены, затем
// ограничивает t диапазоном [0.05, 0.95].
func ProjectPointOnWall(p models.Point, w models.Wall) Projection {
	v := WallVector(w)

	t := PosMin
	if v.Len > 0 {
		t = ((p.X-w.P1.X)*v.DX + (p.Y-w.P1.Y)*v.DY) / v.Len
	}
	t = ClampPos(t)

	closest := PointAt(w, t)
	return Projection{
		T:        t,
		Distance: Distance(p, closest),
		Closest:  closest,
	}
}

// ============================================================
// Rotation
// ============================================================

// RotatePoint поворачивает p вокруг c на deg градусов (по часовой стрелке в
// экранных координатах с осью Y вниз).
func RotatePoint(p, c models.Point, deg float64) models.Point {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := p.X-c.X, p.Y-c.Y
	return models.Point{
		X: c.X + dx*cos - dy*sin,
		Y: c.Y + dx*sin + dy*cos,
	}
}

// RectanglePoints — углы прямоугольника с центром (cx, cy), повёрнутого на
// rotationDeg.
func RectanglePoints(cx, cy, width, height, rotationDeg float64) []models.Point {
	halfW := width / 2
	halfH := height / 2
	c := models.Point{X: cx, Y: cy}

	points := []models.Point{
		{X: cx - halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy + halfH},
		{X: cx - halfW, Y: cy + halfH},
	}
	for i, p := range points {
		points[i] = RotatePoint(p, c, rotationDeg)
	}
	return points
}

// ContainsAxisAligned — попадание точки в неповёрнутый прямоугольник мебели.
// Поворот намеренно не учитывается.
func ContainsAxisAligned(f models.Furniture, p models.Point) bool {
	return p.X >= f.X && p.X <= f.X+f.W && p.Y >= f.Y && p.Y <= f.Y+f.H
}
