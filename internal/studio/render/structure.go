package render

import (
	"fmt"
	"math"

	"design-studio/internal/studio/geometry"
	"design-studio/internal/studio/models"
	"design-studio/internal/studio/viewport"

	"github.com/fogleman/gg"
)

// ============================================================
// Walls
// ============================================================

// drawWalls рисует стену четырёхугольником со смещением на половину толщины
// по нормали, чтобы толщина не зависела от масштаба.
func (r *Renderer) drawWalls(dc *gg.Context, scene *models.Scene, v viewport.View) {
	dc.SetLineWidth(1)
	for _, w := range scene.Walls {
		vec := geometry.WallVector(w)
		half := w.Thickness / 2

		quad := []models.Point{
			offset(w.P1, vec.NX, vec.NY, half),
			offset(w.P2, vec.NX, vec.NY, half),
			offset(w.P2, vec.NX, vec.NY, -half),
			offset(w.P1, vec.NX, vec.NY, -half),
		}
		if offscreen(dc, cullMarginPx, toScreen(v, quad...)...) {
			continue
		}
		polygon(dc, v, quad...)
		dc.SetColor(r.palette.WallFill)
		dc.FillPreserve()
		dc.SetColor(r.palette.WallStroke)
		dc.Stroke()
	}
}

// ============================================================
// Doors
// ============================================================

func (r *Renderer) drawDoors(dc *gg.Context, scene *models.Scene, v viewport.View) {
	for _, d := range scene.Doors {
		w, ok := scene.WallByID(d.WallID)
		if !ok {
			continue // проём без стены не рисуется
		}

		vec := geometry.WallVector(w)
		center := geometry.PointAt(w, geometry.ClampPos(d.Pos))
		half := d.Width / 2
		depth := w.Thickness * doorGapDepth

		if offscreen(dc, cullMarginPx+v.Scale(d.Width), v.WorldToScreen(center)) {
			continue
		}

		// проём: прямоугольник цвета фона поверх стены
		start := offset(center, vec.DX, vec.DY, -half)
		end := offset(center, vec.DX, vec.DY, half)
		polygon(dc, v,
			offset(start, vec.NX, vec.NY, depth),
			offset(end, vec.NX, vec.NY, depth),
			offset(end, vec.NX, vec.NY, -depth),
			offset(start, vec.NX, vec.NY, -depth),
		)
		dc.SetColor(r.palette.Background)
		dc.Fill()

		hinge, startAngle, sweep := doorSwing(vec, center, half, d)
		hs := v.WorldToScreen(hinge)
		radius := v.Scale(d.Width)
		endAngle := startAngle + sweep

		dc.SetLineWidth(1)
		dc.SetDash(4, 3)
		dc.SetColor(r.palette.DoorArc)
		dc.NewSubPath()
		dc.DrawArc(hs.X, hs.Y, radius, startAngle, endAngle)
		dc.Stroke()
		dc.SetDash()

		dc.SetLineWidth(2)
		dc.SetColor(r.palette.DoorLeaf)
		dc.DrawLine(hs.X, hs.Y, hs.X+radius*math.Cos(endAngle), hs.Y+radius*math.Sin(endAngle))
		dc.Stroke()
	}
}

// doorSwing возвращает петлю и углы дуги: FlipSide выбирает конец проёма с
// петлёй, FlipSwing — знак угла открывания.
func doorSwing(vec geometry.Vector, center models.Point, half float64, d models.Door) (models.Point, float64, float64) {
	base := math.Atan2(vec.DY, vec.DX)

	hinge := offset(center, vec.DX, vec.DY, -half)
	startAngle := base
	if d.FlipSide {
		hinge = offset(center, vec.DX, vec.DY, half)
		startAngle = base + math.Pi
	}

	sweep := math.Pi / 2
	if d.FlipSwing {
		sweep = -sweep
	}
	return hinge, startAngle, sweep
}

// ============================================================
// Windows
// ============================================================

func (r *Renderer) drawWindows(dc *gg.Context, scene *models.Scene, v viewport.View) {
	for _, win := range scene.Windows {
		w, ok := scene.WallByID(win.WallID)
		if !ok {
			continue
		}

		vec := geometry.WallVector(w)
		center := geometry.PointAt(w, geometry.ClampPos(win.Pos))
		half := win.Width / 2
		depth := w.Thickness / 2

		if offscreen(dc, cullMarginPx+v.Scale(win.Width), v.WorldToScreen(center)) {
			continue
		}

		start := offset(center, vec.DX, vec.DY, -half)
		end := offset(center, vec.DX, vec.DY, half)

		polygon(dc, v,
			offset(start, vec.NX, vec.NY, depth),
			offset(end, vec.NX, vec.NY, depth),
			offset(end, vec.NX, vec.NY, -depth),
			offset(start, vec.NX, vec.NY, -depth),
		)
		dc.SetLineWidth(1)
		dc.SetColor(r.palette.WindowFill)
		dc.FillPreserve()
		dc.SetColor(r.palette.WindowStroke)
		dc.Stroke()

		a := v.WorldToScreen(start)
		b := v.WorldToScreen(end)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
}

// ============================================================
// Room labels & dimensions
// ============================================================

func (r *Renderer) drawRooms(dc *gg.Context, scene *models.Scene, v viewport.View) {
	nameSize := clampF(v.Scale(320), 8, 32)
	areaSize := nameSize * 0.75

	for _, room := range scene.Rooms {
		c := v.WorldToScreen(room.Center)
		if offscreen(dc, cullMarginPx, c) {
			continue
		}

		dc.SetFontFace(r.fonts.Face(nameSize))
		dc.SetColor(r.palette.RoomName)
		dc.DrawStringAnchored(room.Name, c.X, c.Y-nameSize*0.4, 0.5, 0.5)

		dc.SetFontFace(r.fonts.Face(areaSize))
		dc.SetColor(r.palette.RoomArea)
		dc.DrawStringAnchored(FormatArea(room.Area), c.X, c.Y+areaSize*0.9, 0.5, 0.5)
	}
}

func (r *Renderer) drawDimensions(dc *gg.Context, scene *models.Scene, v viewport.View) {
	dc.SetFontFace(r.fonts.Face(clampF(v.Scale(220), 8, 18)))
	dc.SetColor(r.palette.Dimension)

	for _, w := range scene.Walls {
		vec := geometry.WallVector(w)
		if vec.Len == 0 {
			continue
		}
		pos := offset(geometry.Midpoint(w), vec.NX, vec.NY, w.Thickness/2+dimOffsetMM)
		s := v.WorldToScreen(pos)
		if offscreen(dc, cullMarginPx, s) {
			continue
		}
		dc.DrawStringAnchored(FormatLength(vec.Len), s.X, s.Y, 0.5, 0.5)
	}
}

// FormatArea — площадь в м².
func FormatArea(area float64) string {
	return fmt.Sprintf("%.1f m²", area)
}

// FormatLength — длина в метрах из миллиметров.
func FormatLength(mm float64) string {
	return fmt.Sprintf("%.2f m", mm/1000)
}
