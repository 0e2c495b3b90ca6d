package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

// Fixed axes of the history graph.
const (
	tempMin = -10.0
	tempMax = 80.0
	popMin  = 0.0
	popMax  = 100.0
)

type series struct {
	name  string
	color string
	lo    float64
	hi    float64
	value func(dynamo.Snapshot) float64
}

var historySeries = []series{
	{"Temp", "#ff5050", tempMin, tempMax, func(s dynamo.Snapshot) float64 { return s.Temperature }},
	{"White Daisies", "#f0f0f0", popMin, popMax, func(s dynamo.Snapshot) float64 { return s.White }},
	{"Black Daisies", "#a0a0a0", popMin, popMax, func(s dynamo.Snapshot) float64 { return s.Black }},
}

func scale(v, lo, hi, outLo, outHi float64) float64 {
	if hi == lo {
		return outLo
	}
	return outLo + (outHi-outLo)*(v-lo)/(hi-lo)
}

// HistoryToSVG draws temperature and both populations over the run, with
// temperature on a -10..80 C axis and populations on 0..100 %.
func HistoryToSVG(history []dynamo.Snapshot, width, height int) string {
	if len(history) < 2 {
		return ""
	}

	w, h := float64(width), float64(height)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#141e28" stroke="#ffffff" stroke-width="2"/>
`, width, height, width, height))

	last := float64(len(history) - 1)
	for _, s := range historySeries {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="2" d="M`, s.color))
		for i, snap := range history {
			x := scale(float64(i), 0, last, 0, w)
			y := scale(s.value(snap), s.lo, s.hi, h, 0)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	lx, ly := w-140, 15.0
	for _, s := range historySeries {
		sb.WriteString(fmt.Sprintf(`<rect x="%.0f" y="%.0f" width="20" height="10" fill="%s"/>
<text x="%.0f" y="%.0f" fill="#ffffff" font-family="sans-serif" font-size="12">%s</text>
`, lx, ly, s.color, lx+30, ly+10, s.name))
		ly += 20
	}

	sb.WriteString("</svg>")
	return sb.String()
}
