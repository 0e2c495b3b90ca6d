package export

import (
	"strings"
	"testing"

	"github.com/san-kum/daisyworld/internal/dynamo"
)

func TestHistoryToSVG(t *testing.T) {
	history := []dynamo.Snapshot{
		{Tick: 1, Temperature: -10, White: 0, Black: 100},
		{Tick: 2, Temperature: 80, White: 100, Black: 0},
	}

	svg := HistoryToSVG(history, 200, 100)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if n := strings.Count(svg, "<path"); n != 3 {
		t.Errorf("expected 3 series, got %d", n)
	}
	// temperature runs from bottom-left to top-right
	if !strings.Contains(svg, `d="M0.0,100.0 L200.0,0.0"`) {
		t.Errorf("unexpected temperature path:\n%s", svg)
	}
	for _, name := range []string{"Temp", "White Daisies", "Black Daisies"} {
		if !strings.Contains(svg, name) {
			t.Errorf("legend missing %q", name)
		}
	}
}

func TestHistoryToSVGShort(t *testing.T) {
	if HistoryToSVG(nil, 100, 100) != "" {
		t.Error("expected empty output for empty history")
	}
	if HistoryToSVG([]dynamo.Snapshot{{Tick: 1}}, 100, 100) != "" {
		t.Error("expected empty output for a single snapshot")
	}
}
