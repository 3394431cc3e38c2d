package parser

import (
	"math"

	"design-studio/internal/studio/geometry"
	"design-studio/internal/studio/models"
)

// ============================================================
// Wall welding
// ============================================================

const (
	mergeTolerance    = 8.0 // единиц SVG: радиус склейки концов стен
	axisSnapTolerance = 4.0 // единиц SVG: отклонение от оси, при котором стена выпрямляется
)

type weldVertex struct {
	p          models.Point
	sumX, sumY float64
	cntX, cntY int
}

// weldWalls склеивает близкие концы стен в общие вершины и выпрямляет почти
// горизонтальные/вертикальные стены. Выродившиеся стены отбрасываются.
// Вершиной становится первая встреченная точка, порядок стен сохраняется.
func weldWalls(walls []models.WallSpec, mergeTol, axisTol float64) []models.WallSpec {
	var verts []*weldVertex

	vertexOf := func(p models.Point) int {
		for i, v := range verts {
			if geometry.Distance(v.p, p) <= mergeTol {
				return i
			}
		}
		verts = append(verts, &weldVertex{p: p})
		return len(verts) - 1
	}

	edges := make([][2]int, len(walls))
	for i, w := range walls {
		edges[i] = [2]int{vertexOf(w.P1), vertexOf(w.P2)}
	}

	for _, e := range edges {
		a, b := verts[e[0]], verts[e[1]]
		dx, dy := math.Abs(a.p.X-b.p.X), math.Abs(a.p.Y-b.p.Y)

		switch {
		case dy <= axisTol && dx > axisTol:
			y := (a.p.Y + b.p.Y) / 2
			for _, v := range []*weldVertex{a, b} {
				v.sumY += y
				v.cntY++
			}
		case dx <= axisTol && dy > axisTol:
			x := (a.p.X + b.p.X) / 2
			for _, v := range []*weldVertex{a, b} {
				v.sumX += x
				v.cntX++
			}
		}
	}

	for _, v := range verts {
		if v.cntX > 0 {
			v.p.X = v.sumX / float64(v.cntX)
		}
		if v.cntY > 0 {
			v.p.Y = v.sumY / float64(v.cntY)
		}
	}

	out := make([]models.WallSpec, 0, len(walls))
	for i, w := range walls {
		a, b := verts[edges[i][0]].p, verts[edges[i][1]].p
		if edges[i][0] == edges[i][1] || geometry.Distance(a, b) == 0 {
			continue
		}
		out = append(out, models.WallSpec{P1: a, P2: b, Thickness: w.Thickness})
	}
	return out
}
