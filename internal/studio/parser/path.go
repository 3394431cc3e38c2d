package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"design-studio/internal/studio/models"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath разбирает d-атрибут из команд M, L, H, V, Z (и относительных).
// Лишние пары после M трактуются как L, как в SVG.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var cur, start models.Point

	matches := pathCommand.FindAllStringSubmatch(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("unsupported path %q", d)
	}

	for _, match := range matches {
		cmd := match[1]
		args, err := parseCoords(match[2])
		if err != nil {
			return nil, fmt.Errorf("path command %s: %w", cmd, err)
		}

		switch cmd {
		case "M", "m", "L", "l":
			if len(args) < 2 || len(args)%2 != 0 {
				return nil, fmt.Errorf("path command %s: want coordinate pairs, got %d numbers", cmd, len(args))
			}
			relative := cmd == "m" || cmd == "l"
			for i := 0; i < len(args); i += 2 {
				if relative {
					cur = models.Point{X: cur.X + args[i], Y: cur.Y + args[i+1]}
				} else {
					cur = models.Point{X: args[i], Y: args[i+1]}
				}
				if i == 0 && (cmd == "M" || cmd == "m") {
					start = cur
				}
				points = append(points, cur)
			}

		case "H", "h", "V", "v":
			if len(args) == 0 {
				return nil, fmt.Errorf("path command %s: missing coordinate", cmd)
			}
			for _, v := range args {
				switch cmd {
				case "H":
					cur.X = v
				case "h":
					cur.X += v
				case "V":
					cur.Y = v
				case "v":
					cur.Y += v
				}
				points = append(points, cur)
			}

		case "Z", "z":
			if len(points) > 0 {
				cur = start
				points = append(points, start)
			}
		}
	}

	return points, nil
}

func parseCoords(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Fields(strings.ReplaceAll(s, ",", " "))
	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", part)
		}
		if !finite(val) {
			return nil, fmt.Errorf("number %q: %w", part, ErrInvalidNumber)
		}
		coords = append(coords, val)
	}
	return coords, nil
}
