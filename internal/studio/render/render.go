package render

import (
	"image/color"
	"math"

	"design-studio/internal/studio/models"
	"design-studio/internal/studio/viewport"

	"github.com/fogleman/gg"
)

// ============================================================
// Palette
// ============================================================

type Palette struct {
	Background     color.Color
	GridFine       color.Color
	GridCoarse     color.Color
	WallFill       color.Color
	WallStroke     color.Color
	DoorArc        color.Color
	DoorLeaf       color.Color
	WindowFill     color.Color
	WindowStroke   color.Color
	RoomName       color.Color
	RoomArea       color.Color
	Dimension      color.Color
	Shadow         color.Color
	FurnitureFill  color.Color
	FurnitureLine  color.Color
	FurnitureText  color.Color
	SelectedFill   color.Color
	SelectedStroke color.Color
	Pin            color.Color
	PinSelected    color.Color
	PinGlyph       color.Color
	BubbleFill     color.Color
	BubbleStroke   color.Color
	BubbleText     color.Color
}

func DefaultPalette() Palette {
	return Palette{
		Background:     color.RGBA{250, 248, 243, 255},
		GridFine:       color.RGBA{236, 232, 223, 255},
		GridCoarse:     color.RGBA{214, 207, 193, 255},
		WallFill:       color.RGBA{55, 52, 48, 255},
		WallStroke:     color.RGBA{30, 28, 26, 255},
		DoorArc:        color.RGBA{140, 120, 90, 255},
		DoorLeaf:       color.RGBA{90, 70, 45, 255},
		WindowFill:     color.RGBA{205, 230, 245, 255},
		WindowStroke:   color.RGBA{60, 120, 170, 255},
		RoomName:       color.RGBA{70, 66, 60, 255},
		RoomArea:       color.RGBA{130, 124, 114, 255},
		Dimension:      color.RGBA{176, 96, 40, 255},
		Shadow:         color.RGBA{0, 0, 0, 40},
		FurnitureFill:  color.RGBA{255, 255, 255, 235},
		FurnitureLine:  color.RGBA{120, 110, 96, 255},
		FurnitureText:  color.RGBA{80, 74, 66, 255},
		SelectedFill:   color.RGBA{255, 244, 214, 245},
		SelectedStroke: color.RGBA{214, 137, 16, 255},
		Pin:            color.RGBA{46, 125, 50, 255},
		PinSelected:    color.RGBA{214, 137, 16, 255},
		PinGlyph:       color.White,
		BubbleFill:     color.RGBA{255, 255, 255, 245},
		BubbleStroke:   color.RGBA{160, 150, 135, 255},
		BubbleText:     color.RGBA{50, 46, 42, 255},
	}
}

// ============================================================
// Renderer
// ============================================================

const (
	FineGridStep    = 100.0  // мм
	CoarseGridStep  = 1000.0 // мм
	FineGridMinZoom = 0.015

	doorGapDepth  = 0.6   // доля толщины стены по обе стороны оси
	dimOffsetMM   = 250.0 // отступ размерной подписи от грани стены
	minIconPx     = 24.0
	minLabelPx    = 48.0
	pinRadiusPx   = 10.0
	shadowShiftPx = 3.0
	cullMarginPx  = 64.0
)

type Options struct {
	ShowDimensions bool
}

// Frame — всё, что нужно для полной перерисовки.
type Frame struct {
	Scene     *models.Scene
	View      viewport.View
	Selection models.Selection
	Options   Options
}

type Renderer struct {
	fonts   *Fonts
	palette Palette
	icons   func(typeID string) string
}

// NewRenderer создаёт рендерер; icons сопоставляет typeID мебели с глифом.
func NewRenderer(fonts *Fonts, icons func(string) string) *Renderer {
	if fonts == nil {
		fonts = NewFonts(nil)
	}
	if icons == nil {
		icons = func(string) string { return "" }
	}
	return &Renderer{fonts: fonts, palette: DefaultPalette(), icons: icons}
}

func (r *Renderer) SetPalette(p Palette) {
	r.palette = p
}

// Render полностью перерисовывает поверхность. Порядок слоёв важен для
// перекрытия: фон, сетка, стены, двери, окна, комнаты, размеры, мебель, заметки.
func (r *Renderer) Render(dc *gg.Context, f Frame) {
	dc.Identity()
	dc.ResetClip()

	r.drawBackground(dc)
	if !finiteView(f.View) {
		return
	}
	r.drawGrid(dc, f.View)

	if f.Scene == nil {
		return
	}

	r.drawWalls(dc, f.Scene, f.View)
	r.drawDoors(dc, f.Scene, f.View)
	r.drawWindows(dc, f.Scene, f.View)
	r.drawRooms(dc, f.Scene, f.View)
	if f.Options.ShowDimensions {
		r.drawDimensions(dc, f.Scene, f.View)
	}
	r.drawFurniture(dc, f.Scene, f.View, f.Selection)
	r.drawAnnotations(dc, f.Scene, f.View, f.Selection)
}

// ============================================================
// Background & grid
// ============================================================

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(r.palette.Background)
	dc.Clear()
}

func (r *Renderer) drawGrid(dc *gg.Context, v viewport.View) {
	min, max := v.VisibleWorld()

	if v.Zoom > FineGridMinZoom {
		r.drawGridLines(dc, v, min, max, FineGridStep, r.palette.GridFine, 0.5)
	}
	r.drawGridLines(dc, v, min, max, CoarseGridStep, r.palette.GridCoarse, 1)
}

func (r *Renderer) drawGridLines(dc *gg.Context, v viewport.View, min, max models.Point, step float64, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)

	top := v.WorldToScreen(models.Point{X: 0, Y: min.Y}).Y
	bottom := v.WorldToScreen(models.Point{X: 0, Y: max.Y}).Y
	left := v.WorldToScreen(models.Point{X: min.X, Y: 0}).X
	right := v.WorldToScreen(models.Point{X: max.X, Y: 0}).X

	if first, n, ok := gridRange(min.X, max.X, step, dc.Width()); ok {
		for k := 0; k < n; k++ {
			sx := v.WorldToScreen(models.Point{X: (first + float64(k)) * step, Y: 0}).X
			dc.DrawLine(sx, top, sx, bottom)
		}
	}
	if first, n, ok := gridRange(min.Y, max.Y, step, dc.Height()); ok {
		for k := 0; k < n; k++ {
			sy := v.WorldToScreen(models.Point{X: 0, Y: (first + float64(k)) * step}).Y
			dc.DrawLine(left, sy, right, sy)
		}
	}
	dc.Stroke()
}

func finiteView(v viewport.View) bool {
	for _, x := range []float64{v.Zoom, v.Offset.X, v.Offset.Y} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// offscreen — true, если все точки (экранные) лежат по одну сторону от
// поверхности дальше margin пикселей. Такие объекты не отдаются растеризатору.
func offscreen(dc *gg.Context, margin float64, pts ...models.Point) bool {
	w, h := float64(dc.Width()), float64(dc.Height())
	left, right, above, below := true, true, true, true
	for _, p := range pts {
		left = left && p.X < -margin
		right = right && p.X > w+margin
		above = above && p.Y < -margin
		below = below && p.Y > h+margin
	}
	return left || right || above || below
}

func toScreen(v viewport.View, pts ...models.Point) []models.Point {
	out := make([]models.Point, len(pts))
	for i, p := range pts {
		out[i] = v.WorldToScreen(p)
	}
	return out
}

// gridRange возвращает индекс первой линии и число линий на отрезке [lo, hi].
// Слой пропускается, если границы не конечны или линий больше, чем пикселей:
// при дальнем панорамировании float-счётчик перестаёт расти.
func gridRange(lo, hi, step float64, pixels int) (float64, int, bool) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || step <= 0 {
		return 0, 0, false
	}
	first := math.Floor(lo / step)
	count := math.Floor(hi/step) - first + 1
	if count < 1 || count > float64(pixels+1) {
		return 0, 0, false
	}
	return first, int(count), true
}

// ============================================================
// Path helpers
// ============================================================

func polygon(dc *gg.Context, v viewport.View, pts ...models.Point) {
	dc.NewSubPath()
	for i, p := range pts {
		s := v.WorldToScreen(p)
		if i == 0 {
			dc.MoveTo(s.X, s.Y)
		} else {
			dc.LineTo(s.X, s.Y)
		}
	}
	dc.ClosePath()
}

func offset(p models.Point, dx, dy, k float64) models.Point {
	return models.Point{X: p.X + dx*k, Y: p.Y + dy*k}
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
