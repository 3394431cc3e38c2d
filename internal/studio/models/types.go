package models

// ============================================================
// Geometry primitives
// ============================================================

// Point — координата в мировом пространстве (мм) или в пикселях поверхности.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ============================================================
// Structural elements (born with the template, read-only)
// ============================================================

type Wall struct {
	ID        string  `json:"id"`
	P1        Point   `json:"p1"`
	P2        Point   `json:"p2"`
	Thickness float64 `json:"thickness"`
}

// Door привязана к стене параметрической позицией Pos в [0.05, 0.95].
type Door struct {
	ID        string  `json:"id"`
	WallID    string  `json:"wallId"`
	Pos       float64 `json:"pos"`
	Width     float64 `json:"width"`
	FlipSide  bool    `json:"flipSide"`
	FlipSwing bool    `json:"flipSwing"`
}

type Window struct {
	ID     string  `json:"id"`
	WallID string  `json:"wallId"`
	Pos    float64 `json:"pos"`
	Width  float64 `json:"width"`
}

// RoomLabel — статичные данные шаблона, площадь не пересчитывается по стенам.
type RoomLabel struct {
	Name   string  `json:"name"`
	Height float64 `json:"height"`
	Area   float64 `json:"area"`
	Center Point   `json:"center"`
}

// ============================================================
// User content
// ============================================================

// Furniture: (X, Y) — левый верхний угол до поворота, Rot — градусы по часовой
// стрелке вокруг центра.
type Furniture struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
	Rot    float64 `json:"rot"`
	TypeID string  `json:"typeId"`
	Label  string  `json:"label"`
}

type Annotation struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// Scene — сохраняемая часть состояния, единица снапшота истории.
// Состояние вида (zoom, offset, выделение) сюда не входит.
type Scene struct {
	Walls       []Wall       `json:"walls"`
	Doors       []Door       `json:"doors"`
	Windows     []Window     `json:"windows"`
	Furniture   []Furniture  `json:"furniture"`
	Rooms       []RoomLabel  `json:"rooms"`
	Annotations []Annotation `json:"annotations"`
}

// WallByID ищет стену по идентификатору.
func (s *Scene) WallByID(id string) (Wall, bool) {
	if id == "" {
		return Wall{}, false
	}
	for _, w := range s.Walls {
		if w.ID == id {
			return w, true
		}
	}
	return Wall{}, false
}

func (s *Scene) FurnitureIndex(id string) int {
	for i := range s.Furniture {
		if s.Furniture[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Scene) AnnotationIndex(id string) int {
	for i := range s.Annotations {
		if s.Annotations[i].ID == id {
			return i
		}
	}
	return -1
}

// ============================================================
// Selection
// ============================================================

type SelectionKind string

const (
	SelectNone       SelectionKind = ""
	SelectFurniture  SelectionKind = "furniture"
	SelectAnnotation SelectionKind = "annotation"
)

type Selection struct {
	Kind SelectionKind `json:"kind"`
	ID   string        `json:"id"`
}

func (s Selection) Empty() bool {
	return s.Kind == SelectNone || s.ID == ""
}

func (s Selection) Is(kind SelectionKind, id string) bool {
	return s.Kind == kind && s.ID == id
}

// ============================================================
// Templates & catalog
// ============================================================

type WallSpec struct {
	P1        Point   `json:"p1"`
	P2        Point   `json:"p2"`
	Thickness float64 `json:"thickness"`
}

// OpeningSpec описывает дверь или окно через индекс стены в шаблоне.
type OpeningSpec struct {
	Wall      int     `json:"wall"`
	Pos       float64 `json:"pos"`
	Width     float64 `json:"width"`
	FlipSide  bool    `json:"flipSide,omitempty"`
	FlipSwing bool    `json:"flipSwing,omitempty"`
}

type Template struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Walls   []WallSpec    `json:"walls"`
	Doors   []OpeningSpec `json:"doors"`
	Windows []OpeningSpec `json:"windows"`
	Rooms   []RoomLabel   `json:"rooms"`
}

type CatalogItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	WidthMM  float64 `json:"widthMm"`
	HeightMM float64 `json:"heightMm"`
	Icon     string  `json:"icon"`
	Category string  `json:"category"`
}

// ============================================================
// SVG Elements (template import)
// ============================================================

type SVGElement struct {
	ID       string
	Type     string // wall, door, window, room
	Geometry interface{}
}

type RectGeometry struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type PathGeometry struct {
	D string
}
