package viz

import (
	"math/rand"
	"strings"
)

type cover uint8

const (
	bare cover = iota
	whiteDaisy
	blackDaisy
)

// Surface is a character mosaic of the planet. Each cell is bare ground or
// a daisy, in proportion to the cover fractions.
type Surface struct {
	Width, Height int
	cells         []cover
	rng           *rand.Rand
}

// NewSurface creates a surface whose layout is reproducible for a seed.
func NewSurface(w, h int, seed int64) *Surface {
	return &Surface{
		Width:  w,
		Height: h,
		cells:  make([]cover, w*h),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Fill lays out the cover fractions and scatters them over the surface.
func (s *Surface) Fill(white, black float64) {
	n := len(s.cells)
	nw := int(float64(n) * white)
	nb := int(float64(n) * black)
	nw = max(0, min(nw, n))
	nb = max(0, min(nb, n-nw))

	for i := range s.cells {
		switch {
		case i < nw:
			s.cells[i] = whiteDaisy
		case i < nw+nb:
			s.cells[i] = blackDaisy
		default:
			s.cells[i] = bare
		}
	}
	s.rng.Shuffle(n, func(i, j int) {
		s.cells[i], s.cells[j] = s.cells[j], s.cells[i]
	})
}

// Counts returns the number of white, black and bare cells.
func (s *Surface) Counts() (white, black, ground int) {
	for _, c := range s.cells {
		switch c {
		case whiteDaisy:
			white++
		case blackDaisy:
			black++
		default:
			ground++
		}
	}
	return
}

// Render draws the surface with the theme's cover colors.
func (s *Surface) Render(st Styles) string {
	var b strings.Builder
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			switch s.cells[y*s.Width+x] {
			case whiteDaisy:
				b.WriteString(st.White.Render("✿"))
			case blackDaisy:
				b.WriteString(st.Black.Render("✿"))
			default:
				b.WriteString(st.Ground.Render("·"))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
