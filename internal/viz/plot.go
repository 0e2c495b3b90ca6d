package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/daisyworld/internal/dynamo"
)

// PlotOptions sizes the history charts.
type PlotOptions struct {
	Width  int
	Height int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 12}
}

// PlotHistory draws temperature and both populations over the run.
func PlotHistory(history []dynamo.Snapshot, opts PlotOptions) string {
	if len(history) < 2 {
		return "not enough history to plot\n"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultPlotOptions()
	}

	temp := make([]float64, len(history))
	white := make([]float64, len(history))
	black := make([]float64, len(history))
	for i, s := range history {
		temp[i] = s.Temperature
		white[i] = s.White
		black[i] = s.Black
	}

	first, last := history[0].Tick, history[len(history)-1].Tick

	var b strings.Builder
	b.WriteString(asciigraph.Plot(temp,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("temperature (C), ticks %d-%d", first, last)),
	))
	b.WriteString("\n\n")
	b.WriteString(asciigraph.PlotMany([][]float64{white, black},
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.LowerBound(0),
		asciigraph.SeriesColors(asciigraph.White, asciigraph.Gray),
		asciigraph.Caption(fmt.Sprintf("white / black population (%%), ticks %d-%d", first, last)),
	))
	b.WriteString("\n")
	return b.String()
}

// PlotSeries draws one named series, as used for sweep and scan curves.
func PlotSeries(values []float64, caption string, opts PlotOptions) string {
	if len(values) < 2 {
		return "not enough points to plot\n"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultPlotOptions()
	}
	return asciigraph.Plot(values,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	) + "\n"
}
