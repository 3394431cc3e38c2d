package render

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// ============================================================
// Fonts
// ============================================================

var (
	defaultFontOnce sync.Once
	defaultFont     *truetype.Font
)

// DefaultFont — встроенный Go Regular.
func DefaultFont() *truetype.Font {
	defaultFontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			panic(fmt.Sprintf("parse embedded font: %v", err)) // встроенный шрифт всегда валиден
		}
		defaultFont = f
	})
	return defaultFont
}

// LoadFont читает TTF с диска (например, шрифт с арабскими глифами).
// Пустой путь — шрифт по умолчанию.
func LoadFont(path string) (*truetype.Font, error) {
	if path == "" {
		return DefaultFont(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return f, nil
}

// Fonts кеширует начертания по размеру. Начертания не потокобезопасны,
// поэтому у каждого рендерера свой Fonts.
type Fonts struct {
	font  *truetype.Font
	faces map[int]font.Face
}

func NewFonts(f *truetype.Font) *Fonts {
	if f == nil {
		f = DefaultFont()
	}
	return &Fonts{font: f, faces: make(map[int]font.Face)}
}

const (
	minFontPx = 6
	maxFontPx = 48
)

// Face возвращает начертание размера size px (округляется и ограничивается).
func (f *Fonts) Face(size float64) font.Face {
	px := int(math.Round(size))
	if px < minFontPx {
		px = minFontPx
	}
	if px > maxFontPx {
		px = maxFontPx
	}

	if face, ok := f.faces[px]; ok {
		return face
	}
	face := truetype.NewFace(f.font, &truetype.Options{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	f.faces[px] = face
	return face
}

// Has сообщает, есть ли в шрифте глифы для всех рун строки.
func (f *Fonts) Has(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '\uFE0F' { // variation selector эмодзи
			continue
		}
		if f.font.Index(r) == 0 {
			return false
		}
	}
	return true
}

// FontSource держит разобранный шрифт и раздаёт каждому редактору
// собственный кеш начертаний.
type FontSource struct {
	font *truetype.Font
}

func NewFontSource(path string) (*FontSource, error) {
	f, err := LoadFont(path)
	if err != nil {
		return nil, err
	}
	return &FontSource{font: f}, nil
}

func (s *FontSource) Fonts() *Fonts {
	if s == nil {
		return NewFonts(nil)
	}
	return NewFonts(s.font)
}
