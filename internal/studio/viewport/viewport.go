package viewport

import (
	"math"

	"design-studio/internal/studio/geometry"
	"design-studio/internal/studio/models"
)

// ============================================================
// Coordinate Transform
// ============================================================

const (
	MinZoom = 0.008 // пикселей на мм
	MaxZoom = 0.2

	DefaultZoom = 0.045

	fitPadding = 40.0
)

// View — масштаб и сдвиг поверхности. Width/Height — размер поверхности в пикселях.
type View struct {
	Zoom   float64      `json:"zoom"`
	Offset models.Point `json:"offset"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
}

func New(width, height int) View {
	return View{Zoom: DefaultZoom, Width: width, Height: height}
}

// ClampZoom приводит масштаб к [MinZoom, MaxZoom]; NaN даёт масштаб по умолчанию.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return DefaultZoom
	}
	return geometry.Clamp(z, MinZoom, MaxZoom)
}

func (v View) WorldToScreen(p models.Point) models.Point {
	return models.Point{
		X: p.X*v.Zoom + v.Offset.X,
		Y: p.Y*v.Zoom + v.Offset.Y,
	}
}

func (v View) ScreenToWorld(sx, sy float64) models.Point {
	return models.Point{
		X: (sx - v.Offset.X) / v.Zoom,
		Y: (sy - v.Offset.Y) / v.Zoom,
	}
}

// Scale переводит длину в мм в пиксели.
func (v View) Scale(mm float64) float64 {
	return mm * v.Zoom
}

func (v *View) SetZoom(z float64) {
	v.Zoom = ClampZoom(z)
}

func (v *View) ZoomBy(factor float64) {
	v.SetZoom(v.Zoom * factor)
}

// Pan сдвигает вид на экранную дельту; сдвиг не ограничен.
func (v *View) Pan(dx, dy float64) {
	v.Offset.X += dx
	v.Offset.Y += dy
}

// Center — центр поверхности в мировых координатах.
func (v View) Center() models.Point {
	return v.ScreenToWorld(float64(v.Width)/2, float64(v.Height)/2)
}

// VisibleWorld возвращает видимый прямоугольник мира по углам поверхности.
func (v View) VisibleWorld() (min, max models.Point) {
	a := v.ScreenToWorld(0, 0)
	b := v.ScreenToWorld(float64(v.Width), float64(v.Height))
	return models.Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		models.Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// Fit подбирает масштаб и сдвиг так, чтобы стены целиком поместились на
// поверхности. Без стен оставляет масштаб по умолчанию.
func (v *View) Fit(walls []models.Wall) {
	if len(walls) == 0 || v.Width <= 0 || v.Height <= 0 {
		v.SetZoom(DefaultZoom)
		return
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64
	for _, w := range walls {
		half := w.Thickness / 2
		for _, p := range []models.Point{w.P1, w.P2} {
			minX = math.Min(minX, p.X-half)
			minY = math.Min(minY, p.Y-half)
			maxX = math.Max(maxX, p.X+half)
			maxY = math.Max(maxY, p.Y+half)
		}
	}

	width := math.Max(maxX-minX, 1)
	height := math.Max(maxY-minY, 1)
	availW := math.Max(float64(v.Width)-2*fitPadding, 1)
	availH := math.Max(float64(v.Height)-2*fitPadding, 1)

	v.SetZoom(math.Min(availW/width, availH/height))

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	v.Offset = models.Point{
		X: float64(v.Width)/2 - cx*v.Zoom,
		Y: float64(v.Height)/2 - cy*v.Zoom,
	}
}
