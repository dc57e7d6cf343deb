package templates

import "strconv"

type axisSelect struct {
	Name  string
	Label string
	Value string
}

func axisSelects(p ExplorerPage) []axisSelect {
	return []axisSelect{
		{"x", "X axis", p.X},
		{"y", "Y axis", p.Y},
		{"z", "Z axis", p.Z},
		{"color", "Color", p.Color},
	}
}

func countLabel(p ExplorerPage) string {
	if p.CountLabel != "" {
		return p.CountLabel
	}
	return strconv.Itoa(p.Total) + " experiments"
}

func plotAlt(p ExplorerPage) string {
	return p.Y + " vs " + p.X + " vs " + p.Z + ", colored by " + p.Color
}
