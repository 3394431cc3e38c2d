package parser

import (
	"errors"
	"fmt"
	"math"

	"design-studio/internal/studio/geometry"
	"design-studio/internal/studio/models"
)

// ============================================================
// SVG elements → Template
// ============================================================

const (
	pathWallThickness = 150.0 // мм, у path-стены нет собственной толщины
	defaultOpening    = 900.0
)

var (
	ErrNoWalls         = errors.New("svg has no walls")
	ErrDegenerateWall  = errors.New("wall rect must have positive width and height")
	ErrDetachedOpening = errors.New("opening cannot be attached to any wall")
)

// ToTemplate строит шаблон из элементов SVG. scale — миллиметров на единицу
// SVG. Прямоугольник стены превращается в осевой отрезок вдоль длинной
// стороны с толщиной короткой, проёмы цепляются к ближайшей стене.
func ToTemplate(id, name string, elements []models.SVGElement, scale float64) (models.Template, error) {
	if scale <= 0 || !finite(scale) {
		scale = 1
	}

	tpl := models.Template{
		ID:      id,
		Name:    name,
		Walls:   []models.WallSpec{},
		Doors:   []models.OpeningSpec{},
		Windows: []models.OpeningSpec{},
		Rooms:   []models.RoomLabel{},
	}

	for _, el := range elements {
		if el.Type != TypeWall {
			continue
		}
		walls, err := wallSpecs(el, scale)
		if err != nil {
			return models.Template{}, fmt.Errorf("wall %s: %w", el.ID, err)
		}
		tpl.Walls = append(tpl.Walls, walls...)
	}
	tpl.Walls = weldWalls(tpl.Walls, mergeTolerance*scale, axisSnapTolerance*scale)
	if len(tpl.Walls) == 0 {
		return models.Template{}, ErrNoWalls
	}

	for _, el := range elements {
		switch el.Type {
		case TypeDoor, TypeWindow:
			points, err := elementPoints(el, scale)
			if err != nil {
				return models.Template{}, fmt.Errorf("%s %s: %w", el.Type, el.ID, err)
			}
			opening, err := attachOpening(tpl.Walls, points)
			if err != nil {
				return models.Template{}, fmt.Errorf("%s %s: %w", el.Type, el.ID, err)
			}
			if el.Type == TypeDoor {
				tpl.Doors = append(tpl.Doors, opening)
			} else {
				tpl.Windows = append(tpl.Windows, opening)
			}

		case TypeRoom:
			points, err := elementPoints(el, scale)
			if err != nil {
				return models.Template{}, fmt.Errorf("room %s: %w", el.ID, err)
			}
			tpl.Rooms = append(tpl.Rooms, models.RoomLabel{
				Name:   RoomName(el.ID),
				Area:   math.Round(polygonArea(points)/1e4) / 100, // мм² → м², 2 знака
				Center: centroid(points),
			})
		}
	}

	return tpl, nil
}

func wallSpecs(el models.SVGElement, scale float64) ([]models.WallSpec, error) {
	switch g := el.Geometry.(type) {
	case models.RectGeometry:
		x, y, w, h := g.X*scale, g.Y*scale, g.Width*scale, g.Height*scale
		if !finite(x, y, w, h) {
			return nil, ErrInvalidNumber
		}
		// стена нулевой толщины не отрисовывается и не ловится hit-test'ом
		if w <= 0 || h <= 0 {
			return nil, ErrDegenerateWall
		}
		if w >= h {
			return []models.WallSpec{{
				P1:        models.Point{X: x, Y: y + h/2},
				P2:        models.Point{X: x + w, Y: y + h/2},
				Thickness: h,
			}}, nil
		}
		return []models.WallSpec{{
			P1:        models.Point{X: x + w/2, Y: y},
			P2:        models.Point{X: x + w/2, Y: y + h},
			Thickness: w,
		}}, nil

	case models.PathGeometry:
		points, err := ParsePath(g.D)
		if err != nil {
			return nil, err
		}
		var out []models.WallSpec
		for i := 1; i < len(points); i++ {
			a, b := scalePoint(points[i-1], scale), scalePoint(points[i], scale)
			if !finite(a.X, a.Y, b.X, b.Y) {
				return nil, ErrInvalidNumber
			}
			if geometry.Distance(a, b) == 0 {
				continue
			}
			out = append(out, models.WallSpec{P1: a, P2: b, Thickness: pathWallThickness})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported geometry %T", el.Geometry)
}

func elementPoints(el models.SVGElement, scale float64) ([]models.Point, error) {
	switch g := el.Geometry.(type) {
	case models.RectGeometry:
		x, y, w, h := g.X*scale, g.Y*scale, g.Width*scale, g.Height*scale
		if !finite(x, y, w, h) {
			return nil, ErrInvalidNumber
		}
		return []models.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, nil

	case models.PathGeometry:
		points, err := ParsePath(g.D)
		if err != nil {
			return nil, err
		}
		if len(points) > 1 && points[0] == points[len(points)-1] {
			points = points[:len(points)-1]
		}
		for i := range points {
			points[i] = scalePoint(points[i], scale)
			if !finite(points[i].X, points[i].Y) {
				return nil, ErrInvalidNumber
			}
		}
		return points, nil
	}
	return nil, fmt.Errorf("unsupported geometry %T", el.Geometry)
}

// attachOpening находит стену, ближайшую к центру проёма. Ширина проёма —
// протяжённость его контура вдоль направления стены.
func attachOpening(walls []models.WallSpec, points []models.Point) (models.OpeningSpec, error) {
	c := centroid(points)

	best, bestDist := -1, math.MaxFloat64
	var bestProj geometry.Projection
	for i, ws := range walls {
		proj := geometry.ProjectPointOnWall(c, models.Wall{P1: ws.P1, P2: ws.P2, Thickness: ws.Thickness})
		if proj.Distance < bestDist {
			best, bestDist, bestProj = i, proj.Distance, proj
		}
	}

	if best < 0 {
		return models.OpeningSpec{}, ErrDetachedOpening
	}

	vec := geometry.WallVector(models.Wall{P1: walls[best].P1, P2: walls[best].P2})
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for _, p := range points {
		along := p.X*vec.DX + p.Y*vec.DY
		lo, hi = math.Min(lo, along), math.Max(hi, along)
	}
	width := hi - lo
	if width <= 0 {
		width = defaultOpening
	}

	return models.OpeningSpec{Wall: best, Pos: bestProj.T, Width: width}, nil
}

func scalePoint(p models.Point, scale float64) models.Point {
	return models.Point{X: p.X * scale, Y: p.Y * scale}
}

func centroid(points []models.Point) models.Point {
	if len(points) == 0 {
		return models.Point{}
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return models.Point{X: sx / n, Y: sy / n}
}

// polygonArea — площадь по формуле шнурков, в квадратных единицах точек.
func polygonArea(points []models.Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return math.Abs(sum) / 2
}
