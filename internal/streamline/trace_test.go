package streamline_test

import (
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/dynamo"
	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/streamline"
)

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	return out
}

func sampledField(lo, hi float64, n int, fn func(x, y float64) (float64, float64)) *field.VectorField {
	g, err := field.NewGrid(linspace(lo, hi, n), linspace(lo, hi, n))
	Expect(err).NotTo(HaveOccurred())
	return field.FromFunc(g, fn)
}

func expectNear(got, want vec.Vec2, tol float64) {
	GinkgoHelper()
	Expect(got.X).To(BeNumerically("~", want.X, tol))
	Expect(got.Y).To(BeNumerically("~", want.Y, tol))
}

func options(duration float64, samples int, method string) streamline.Options {
	opts := streamline.DefaultOptions()
	opts.Duration = duration
	opts.Samples = samples
	opts.Method = method
	return opts
}

var _ = Describe("Trace", func() {
	var (
		uniform *field.VectorField
		zero    *field.VectorField
	)

	BeforeEach(func() {
		uniform = sampledField(0, 4, 5, func(x, y float64) (float64, float64) { return 1, 0 })
		zero = sampledField(0, 4, 5, func(x, y float64) (float64, float64) { return 0, 0 })
	})

	It("follows a uniform field in both directions", func() {
		traj, err := streamline.Trace(uniform, vec.Vec2{X: 2, Y: 2}, options(1, 3, "RK45"))
		Expect(err).NotTo(HaveOccurred())

		want := []vec.Vec2{{X: 1, Y: 2}, {X: 1.5, Y: 2}, {X: 2, Y: 2}, {X: 2.5, Y: 2}, {X: 3, Y: 2}}
		Expect(traj).To(HaveLen(len(want)))
		for i := range want {
			expectNear(traj[i], want[i], 1e-9)
		}
	})

	It("keeps every point at the seed in a zero field", func() {
		seed := vec.Vec2{X: 1.25, Y: 3.5}
		for _, samples := range []int{2, 7, 50} {
			traj, err := streamline.Trace(zero, seed, options(1e5, samples, "LSODA"))
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(HaveLen(2*samples - 1))
			for _, p := range traj {
				Expect(p).To(Equal(seed))
			}
		}
	})

	It("collapses a seed outside the grid to the seed", func() {
		seed := vec.Vec2{X: 10, Y: -3}
		traj, err := streamline.Trace(uniform, seed, options(100, 20, "RK45"))
		Expect(err).NotTo(HaveOccurred())
		for _, p := range traj {
			Expect(p).To(Equal(seed))
		}
	})

	It("places the seed at index Samples-1", func() {
		seed := vec.Vec2{X: 0.7, Y: 3.1}
		traj, err := streamline.Trace(uniform, seed, options(2, 9, "RK23"))
		Expect(err).NotTo(HaveOccurred())
		Expect(traj[streamline.SeedIndex(9)]).To(Equal(seed))
	})

	It("is deterministic", func() {
		vortex := sampledField(0, 10, 21, func(x, y float64) (float64, float64) { return -(y - 5), x - 5 })
		opts := options(6, 200, "LSODA")
		a, err := streamline.Trace(vortex, vec.Vec2{X: 7, Y: 5}, opts)
		Expect(err).NotTo(HaveOccurred())
		b, err := streamline.Trace(vortex, vec.Vec2{X: 7, Y: 5}, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("stops at the grid edge and repeats the stop position", func() {
		traj, err := streamline.Trace(uniform, vec.Vec2{X: 2, Y: 2}, options(10, 11, "RK45"))
		Expect(err).NotTo(HaveOccurred())

		first, last := traj[0], traj[len(traj)-1]
		Expect(first.X).To(BeNumerically("~", 0, 1e-9))
		Expect(last.X).To(BeNumerically("~", 4, 1e-9))
		Expect(traj[len(traj)-2]).To(Equal(last))
		Expect(traj[1]).To(Equal(first))
	})

	DescribeTable("stops at the grid edge under default options",
		func(lo, hi, speed float64, method string) {
			f := sampledField(lo, hi, 5, func(x, y float64) (float64, float64) { return speed, 0 })
			opts := streamline.DefaultOptions()
			opts.Method = method
			c := (lo + hi) / 2

			traj, err := streamline.Trace(f, vec.Vec2{X: c, Y: c}, opts)
			Expect(err).NotTo(HaveOccurred())

			tol := 1e-9 * hi
			Expect(traj[0].X).To(BeNumerically("~", lo, tol))
			Expect(traj[len(traj)-1].X).To(BeNumerically("~", hi, tol))
			for _, p := range traj {
				Expect(p.X).To(BeNumerically(">=", lo-tol))
				Expect(p.X).To(BeNumerically("<=", hi+tol))
			}
		},
		Entry("small grid, LSODA", 0.0, 4.0, 1.0, "LSODA"),
		Entry("small grid, RK23", 0.0, 4.0, 1.0, "RK23"),
		Entry("offset grid, LSODA", 1e5, 5e5, 10.0, "LSODA"),
	)

	It("moves at unit speed when normalized", func() {
		vortex := sampledField(0, 100, 101, func(x, y float64) (float64, float64) { return -(y - 50), x - 50 })
		opts := options(60, 61, "RK45")
		opts.Normalize = true
		opts.Tolerance = dynamo.Tolerance{RTol: 1e-6, ATol: 1e-9}

		traj, err := streamline.Trace(vortex, vec.Vec2{X: 50, Y: 70}, opts)
		Expect(err).NotTo(HaveOccurred())
		for i := 1; i < len(traj); i++ {
			Expect(traj[i].Sub(traj[i-1]).Length()).To(BeNumerically("~", 1, 0.02))
		}
	})

	It("stalls at a stagnation point under normalization", func() {
		// Flow converges on x = 2 where the speed vanishes.
		sink := sampledField(0, 4, 41, func(x, y float64) (float64, float64) { return 2 - x, 0 })
		opts := options(50, 51, "RK45")
		opts.Normalize = true

		traj, err := streamline.Trace(sink, vec.Vec2{X: 0.5, Y: 1}, opts)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range traj {
			Expect(math.IsNaN(p.X) || math.IsInf(p.X, 0)).To(BeFalse())
		}
		Expect(traj[len(traj)-1].X).To(BeNumerically("~", 2, 0.05))
	})

	DescribeTable("always returns 2*Samples-1 points",
		func(method string, duration float64, samples int, seed vec.Vec2) {
			vortex := sampledField(0, 10, 11, func(x, y float64) (float64, float64) { return -(y - 5), x - 5 })
			traj, err := streamline.Trace(vortex, seed, options(duration, samples, method))
			Expect(err).NotTo(HaveOccurred())
			Expect(traj).To(HaveLen(2*samples - 1))
		},
		Entry("RK45 inside", "RK45", 5.0, 100, vec.Vec2{X: 6, Y: 5}),
		Entry("RK23 leaving the grid", "RK23", 50.0, 10, vec.Vec2{X: 9.5, Y: 5}),
		Entry("LSODA outside", "LSODA", 1.0, 2, vec.Vec2{X: -1, Y: -1}),
		Entry("RK4 fixed step", "RK4", 3.0, 30, vec.Vec2{X: 5, Y: 7}),
		Entry("Euler fixed step", "Euler", 3.0, 5, vec.Vec2{X: 5, Y: 7}),
		Entry("NaN seed", "RK45", 3.0, 4, vec.Vec2{X: math.NaN(), Y: 1}),
	)

	DescribeTable("rejects invalid options",
		func(mutate func(*streamline.Options)) {
			opts := streamline.DefaultOptions()
			mutate(&opts)
			_, err := streamline.NewTracer(uniform, opts)
			Expect(err).To(MatchError(streamline.ErrInvalidOptions))
		},
		Entry("one sample", func(o *streamline.Options) { o.Samples = 1 }),
		Entry("zero duration", func(o *streamline.Options) { o.Duration = 0 }),
		Entry("infinite duration", func(o *streamline.Options) { o.Duration = math.Inf(1) }),
		Entry("unknown method", func(o *streamline.Options) { o.Method = "BDF" }),
		Entry("zero tolerance", func(o *streamline.Options) { o.Tolerance.RTol = 0 }),
		Entry("bad bounds", func(o *streamline.Options) { o.Bounds = field.Bounds(9) }),
		Entry("no step budget", func(o *streamline.Options) { o.MaxSteps = 0 }),
	)

	It("is safe to share across goroutines", func() {
		vortex := sampledField(0, 10, 21, func(x, y float64) (float64, float64) { return -(y - 5), x - 5 })
		tr, err := streamline.NewTracer(vortex, options(4, 100, "RK45"))
		Expect(err).NotTo(HaveOccurred())

		seeds := []vec.Vec2{{X: 6, Y: 5}, {X: 7, Y: 5}, {X: 8, Y: 5}, {X: 5, Y: 9}}
		want := make([]streamline.Trajectory, len(seeds))
		for i, s := range seeds {
			want[i] = tr.Trace(s)
		}

		got := make([]streamline.Trajectory, len(seeds))
		var wg sync.WaitGroup
		for i, s := range seeds {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got[i] = tr.Trace(s)
			}()
		}
		wg.Wait()
		Expect(got).To(Equal(want))
	})
})

var _ = Describe("Integrate", func() {
	It("returns Samples points starting at the seed", func() {
		f := sampledField(0, 4, 5, func(x, y float64) (float64, float64) { return 0, 1 })
		tr, err := streamline.NewTracer(f, options(2, 5, "RK45"))
		Expect(err).NotTo(HaveOccurred())

		fwd := tr.Integrate(vec.Vec2{X: 1, Y: 1}, streamline.Forward)
		bwd := tr.Integrate(vec.Vec2{X: 1, Y: 1}, streamline.Backward)
		Expect(fwd).To(HaveLen(5))
		Expect(bwd).To(HaveLen(5))
		expectNear(fwd[4], vec.Vec2{X: 1, Y: 3}, 1e-9)
		// Backward reaches the lower edge at t = -1 and stays there.
		Expect(bwd[4].Y).To(BeNumerically("~", 0, 0.01))
		Expect(bwd[4]).To(Equal(bwd[3]))
	})
})
