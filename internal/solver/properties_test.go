package solver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/solver"
)

const frameDt = 1.0 / 60

func mustSolver(mutate func(*solver.Config)) *solver.Solver {
	cfg := solver.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := solver.New(cfg)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func overlap(s *solver.Solver) float64 {
	d := 2*s.Config().Radius - s.MinSeparation()
	return math.Max(0, d)
}

var _ = Describe("Solver", func() {
	Describe("a single particle dropped under gravity", func() {
		var s *solver.Solver

		BeforeEach(func() {
			s = mustSolver(nil)
			s.AddParticle(dynamo.Vec2{X: 400, Y: 100})
		})

		It("comes to rest on the floor without leaving the world", func() {
			for frame := 0; frame < 1200; frame++ {
				s.Update(frameDt)
				p := s.Particles().Position(0)
				Expect(p.X).To(Equal(400.0))
				Expect(p.Y).To(BeNumerically("<=", 595))
			}
			Expect(s.Particles().Position(0).Y).To(BeNumerically("~", 595, 1e-6))
		})

		It("never rebounds higher than the previous bounce", func() {
			var heights []float64
			top, airborne := 100.0, true

			for frame := 0; frame < 1200; frame++ {
				s.Update(frameDt)
				y := s.Particles().Position(0).Y
				if s.Stats().BoundaryHits > 0 {
					if airborne {
						heights = append(heights, 595-top)
					}
					top, airborne = y, false
					continue
				}
				airborne = true
				top = math.Min(top, y)
			}

			Expect(heights).NotTo(BeEmpty())
			Expect(heights[0]).To(BeNumerically("~", 495, 1e-9))
			for i := 1; i < len(heights); i++ {
				Expect(heights[i]).To(BeNumerically("<=", heights[i-1]))
			}
		})
	})

	Describe("overlap resolution", func() {
		It("separates a pair monotonically", func() {
			s := mustSolver(func(c *solver.Config) {
				c.Gravity = dynamo.Vec2{}
				c.Response = solver.ResponseDamped
			})
			s.AddParticle(dynamo.Vec2{X: 400, Y: 300})
			s.AddParticle(dynamo.Vec2{X: 403, Y: 300})

			last := overlap(s)
			Expect(last).To(BeNumerically("~", 7, 1e-9))
			for frame := 0; frame < 10; frame++ {
				s.Update(frameDt)
				o := overlap(s)
				Expect(o).To(BeNumerically("<=", last))
				last = o
			}
			Expect(last).To(BeNumerically("<", 1e-9))
		})

		It("relaxes a dense cluster", func() {
			s := mustSolver(func(c *solver.Config) {
				c.Gravity = dynamo.Vec2{}
				c.Response = solver.ResponseDamped
			})
			for i := 0; i < 12; i++ {
				x := 396 + float64(i%4)*2.5 + float64(i)*0.13
				y := 296 + float64(i/4)*2.5 + float64(i%3)*0.21
				s.AddParticle(dynamo.Vec2{X: x, Y: y})
			}

			for frame := 0; frame < 300; frame++ {
				s.Update(frameDt)
			}
			Expect(s.Valid()).To(Equal(-1))
			Expect(s.MinSeparation()).To(BeNumerically(">", 2*s.Config().Radius-0.05))
		})
	})

	DescribeTable("a settled pile",
		func(broadphase solver.Broadphase) {
			s := mustSolver(func(c *solver.Config) { c.Broadphase = broadphase })
			cfg := s.Config()

			for frame := 0; frame < 800; frame++ {
				if frame < 200 {
					x := 20 + float64(frame*37%760)
					s.AddParticle(dynamo.Vec2{X: x, Y: 50})
				}
				s.Update(frameDt)

				Expect(s.Valid()).To(Equal(-1))
				s.Particles().Each(func(_ int, p dynamo.Particle) {
					Expect(p.Position.X).To(BeNumerically(">=", cfg.Radius))
					Expect(p.Position.X).To(BeNumerically("<=", cfg.Width-cfg.Radius))
					Expect(p.Position.Y).To(BeNumerically(">=", cfg.Radius))
					Expect(p.Position.Y).To(BeNumerically("<=", cfg.Height-cfg.Radius))
				})
			}
			Expect(s.Len()).To(Equal(200))
			Expect(s.MinSeparation()).To(BeNumerically(">", 2*cfg.Radius-1))
		},
		Entry("with the spatial hash", solver.BroadphaseHash),
		Entry("with brute force", solver.BroadphaseBrute),
	)

	It("is deterministic for identical inputs", func() {
		run := func() []dynamo.Particle {
			s := mustSolver(nil)
			for frame := 0; frame < 300; frame++ {
				if frame%2 == 0 {
					jitter := float64(frame%7) * 0.9
					s.AddParticle(dynamo.Vec2{X: 400 + jitter, Y: 300})
				}
				s.Update(frameDt)
			}
			return s.Particles().Snapshot(nil)
		}

		Expect(run()).To(Equal(run()))
	})
})
