package render

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"design-studio/internal/studio/models"
	"design-studio/internal/studio/viewport"

	"github.com/fogleman/gg"
)

// ============================================================
// Furniture
// ============================================================

func (r *Renderer) drawFurniture(dc *gg.Context, scene *models.Scene, v viewport.View, sel models.Selection) {
	for _, f := range scene.Furniture {
		r.drawFurnitureItem(dc, f, v, sel.Is(models.SelectFurniture, f.ID))
	}
}

// drawFurnitureItem рисует предмет в локальной системе: перенос в центр,
// поворот на Rot, перенос обратно.
func (r *Renderer) drawFurnitureItem(dc *gg.Context, f models.Furniture, v viewport.View, selected bool) {
	tl := v.WorldToScreen(models.Point{X: f.X, Y: f.Y})
	w, h := v.Scale(f.W), v.Scale(f.H)
	cx, cy := tl.X+w/2, tl.Y+h/2

	if offscreen(dc, cullMarginPx+math.Hypot(w, h), models.Point{X: cx, Y: cy}) {
		return
	}

	dc.Push()
	defer dc.Pop()

	dc.Translate(cx, cy)
	dc.Rotate(gg.Radians(f.Rot))
	dc.Translate(-cx, -cy)

	dc.SetColor(r.palette.Shadow)
	dc.DrawRectangle(tl.X+shadowShiftPx, tl.Y+shadowShiftPx, w, h)
	dc.Fill()

	fill, stroke, lineWidth := r.palette.FurnitureFill, r.palette.FurnitureLine, 1.0
	if selected {
		fill, stroke, lineWidth = r.palette.SelectedFill, r.palette.SelectedStroke, 2.5
	}
	dc.DrawRectangle(tl.X, tl.Y, w, h)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetLineWidth(lineWidth)
	dc.SetColor(stroke)
	dc.Stroke()

	if math.Min(w, h) >= minIconPx {
		size := clampF(math.Min(w, h)*0.45, 10, 40)
		dc.SetFontFace(r.fonts.Face(size))
		dc.SetColor(r.palette.FurnitureText)
		dc.DrawStringAnchored(r.iconGlyph(f), cx, cy, 0.5, 0.5)
	}

	if w >= minLabelPx && f.Label != "" {
		dc.SetFontFace(r.fonts.Face(clampF(w/10, 8, 14)))
		dc.SetColor(r.palette.FurnitureText)
		dc.DrawStringAnchored(f.Label, cx, tl.Y+h+4, 0.5, 1)
	}
}

// iconGlyph берёт иконку каталога, а если в шрифте нет её глифов — первую
// букву подписи.
func (r *Renderer) iconGlyph(f models.Furniture) string {
	if icon := r.icons(f.TypeID); r.fonts.Has(icon) {
		return icon
	}
	name := f.Label
	if name == "" {
		name = f.TypeID
	}
	first, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if first == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(first))
}

// ============================================================
// Annotations
// ============================================================

const noteGlyph = "✎"

func (r *Renderer) drawAnnotations(dc *gg.Context, scene *models.Scene, v viewport.View, sel models.Selection) {
	for _, a := range scene.Annotations {
		r.drawAnnotation(dc, a, v, sel.Is(models.SelectAnnotation, a.ID))
	}
}

func (r *Renderer) drawAnnotation(dc *gg.Context, a models.Annotation, v viewport.View, selected bool) {
	p := v.WorldToScreen(models.Point{X: a.X, Y: a.Y})
	// пузырь с текстом может уходить далеко от булавки
	if offscreen(dc, cullMarginPx+float64(4*len(a.Text))*12, p) {
		return
	}

	pin := r.palette.Pin
	if selected {
		pin = r.palette.PinSelected
	}
	dc.DrawCircle(p.X, p.Y, pinRadiusPx)
	dc.SetColor(pin)
	dc.FillPreserve()
	dc.SetLineWidth(1.5)
	dc.SetColor(r.palette.PinGlyph)
	dc.Stroke()

	glyph := noteGlyph
	if !r.fonts.Has(glyph) {
		glyph = "i"
	}
	dc.SetFontFace(r.fonts.Face(11))
	dc.SetColor(r.palette.PinGlyph)
	dc.DrawStringAnchored(glyph, p.X, p.Y, 0.5, 0.5)

	if a.Text == "" {
		return
	}

	dc.SetFontFace(r.fonts.Face(12))
	tw, th := dc.MeasureString(a.Text)
	const pad = 6.0
	bw, bh := tw+2*pad, th+2*pad
	bx := p.X - bw/2
	by := p.Y - pinRadiusPx - 6 - bh

	dc.DrawRoundedRectangle(bx, by, bw, bh, 5)
	dc.SetColor(r.palette.BubbleFill)
	dc.FillPreserve()
	dc.SetLineWidth(1)
	if selected {
		dc.SetColor(r.palette.PinSelected)
	} else {
		dc.SetColor(r.palette.BubbleStroke)
	}
	dc.Stroke()

	dc.SetColor(r.palette.BubbleText)
	dc.DrawStringAnchored(a.Text, p.X, by+bh/2, 0.5, 0.5)
}
