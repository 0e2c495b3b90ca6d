package dynamo

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// hold advances one tick with the populations pinned, bypassing the physics.
func hold(w *World, white, black float64) {
	w.white, w.black = white, black
	w.ground = 1 - (white + black)
	w.tick++
	w.observe()
}

var _ = Describe("Termination detection", func() {
	var w *World

	BeforeEach(func() {
		p := DefaultParams()
		p.StabilityWindow = 20
		w = NewWorld(p)
	})

	Describe("stability", func() {
		It("declares equilibrium on the tick the window fills", func() {
			for i := 1; i < 20; i++ {
				hold(w, 0.3, 0.2)
				Expect(w.EndReason()).To(Equal(Running), "tick %d", w.Tick())
			}
			hold(w, 0.3, 0.2)
			Expect(w.Tick()).To(Equal(20))
			Expect(w.EndReason()).To(Equal(Stable))
		})

		It("tolerates drift below the tolerance", func() {
			for i := 0; i < 20; i++ {
				hold(w, 0.3+float64(i)*StabilityTolerance/40, 0.2)
			}
			Expect(w.EndReason()).To(Equal(Stable))
		})

		It("ignores windows that still move", func() {
			for i := 0; i < 60; i++ {
				hold(w, 0.3+float64(i)*0.001, 0.2)
			}
			Expect(w.EndReason()).To(Equal(Running))
		})

		It("only looks at the trailing window", func() {
			for i := 0; i < 10; i++ {
				hold(w, 0.1+float64(i)*0.01, 0.2)
			}
			for i := 0; i < 19; i++ {
				hold(w, 0.4, 0.2)
			}
			Expect(w.EndReason()).To(Equal(Running))
			hold(w, 0.4, 0.2)
			Expect(w.EndReason()).To(Equal(Stable))
		})

		It("requires a non-trivial population", func() {
			for i := 0; i < 40; i++ {
				hold(w, 0.004, 0.004)
			}
			Expect(w.EndReason()).To(Equal(Running))
		})
	})

	Describe("extinction", func() {
		It("never fires during the warm-up", func() {
			for w.Tick() < ExtinctionWarmup {
				hold(w, FractionFloor, FractionFloor)
				Expect(w.EndReason()).To(Equal(Running), "tick %d", w.Tick())
			}
		})

		It("fires once the warm-up has passed", func() {
			w.tick = ExtinctionWarmup
			hold(w, 0.004, 0.005)
			Expect(w.Tick()).To(Equal(ExtinctionWarmup + 1))
			Expect(w.EndReason()).To(Equal(Extinct))
		})

		It("keeps a combined population of exactly the threshold alive", func() {
			w.tick = ExtinctionWarmup
			hold(w, 0.005, 0.005)
			Expect(w.EndReason()).NotTo(Equal(Extinct))
		})
	})

	Describe("write-once end reason", func() {
		It("keeps the first classification while stepping continues", func() {
			w.tick = ExtinctionWarmup
			hold(w, 0.001, 0.001)
			Expect(w.EndReason()).To(Equal(Extinct))

			for i := 0; i < 40; i++ {
				hold(w, 0.3, 0.2)
			}
			Expect(w.EndReason()).To(Equal(Extinct))
			Expect(w.Tick()).To(Equal(ExtinctionWarmup + 41))
		})

		It("is cleared by reset", func() {
			w.tick = ExtinctionWarmup
			hold(w, 0.001, 0.001)
			w.Reset(w.Params())
			Expect(w.EndReason()).To(Equal(Running))
		})
	})

	Describe("physics-driven runs", func() {
		DescribeTable("outcome under a constant sun",
			func(luminosity float64, reason, outcome EndReason) {
				p := DefaultParams()
				p.LuminosityInitial = luminosity
				p.LuminosityRate = 0
				w.Reset(p)
				for w.EndReason() == Running && w.Tick() < 10000 {
					w.Step()
				}
				Expect(w.EndReason()).To(Equal(reason))
				Expect(w.Outcome()).To(Equal(outcome))
			},
			Entry("frozen", 0.4, Extinct, FailureToLaunch),
			Entry("temperate", 0.9, Stable, Stable),
			Entry("warm", 1.0, Stable, Stable),
			Entry("scorched", 1.6, Extinct, FailureToLaunch),
		)
	})
})
