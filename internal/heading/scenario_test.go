package heading

import (
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/turretlab/internal/angle"
)

// chassis is a first-order yaw plant: rate lags the commanded rate.
type chassis struct {
	yaw     float64
	rate    float64
	maxRate float64
	tau     float64
}

func (p *chassis) step(cmd, dt float64) {
	p.rate += (cmd*p.maxRate - p.rate) * dt / p.tau
	p.yaw += p.rate * dt
}

var _ = Describe("auto-turn", func() {
	var (
		ctrl *Controller
		dt   float64
	)

	BeforeEach(func() {
		var err error
		ctrl, err = New(DefaultConfig(), WithLogger(slog.New(slog.DiscardHandler)))
		Expect(err).NotTo(HaveOccurred())
		dt = ctrl.Config().Period.Seconds()
	})

	run := func(p *chassis, maxTicks int) (ticks int, peak float64) {
		for ctrl.IsActive() && ticks < maxTicks {
			cmd := ctrl.Tick(p.yaw)
			peak = math.Max(peak, math.Abs(cmd))
			p.step(cmd, dt)
			ticks++
		}
		return ticks, peak
	}

	Context("with a responsive chassis", func() {
		It("finishes every turn and never exceeds the turn speed", func() {
			for _, delta := range []float64{90, -90, 45, 170, -135} {
				p := &chassis{maxRate: 360, tau: 0.05}
				Expect(ctrl.TurnRelative(delta, p.yaw)).To(BeTrue())

				_, peak := run(p, 750)
				Expect(ctrl.IsActive()).To(BeFalse(), "turn of %v never ended", delta)
				Expect(peak).To(BeNumerically("<=", ctrl.Config().TurnSpeed))
				if ctrl.Outcome() == Settled {
					Expect(math.Abs(angle.Diff(delta, p.yaw))).To(BeNumerically("<", ctrl.Config().StopTolerance))
				}
			}
		})
	})

	Context("with a chassis that cannot move", func() {
		It("gives up with a stall instead of turning forever", func() {
			p := &chassis{maxRate: 0, tau: 0.05}
			ctrl.TurnRelative(90, 0)
			ticks, _ := run(p, 1000)
			Expect(ctrl.Outcome()).To(Equal(AbortedStall))
			Expect(ticks).To(Equal(101))
		})
	})

	Context("when asked to cross the +/-180 seam", func() {
		It("turns the short way", func() {
			ctrl.TurnToAbsolute(170)
			Expect(ctrl.Tick(-170)).To(BeNumerically("<", 0))
		})
	})

	Context("while a turn is in flight", func() {
		It("ignores new requests until the turn ends", func() {
			Expect(ctrl.TurnToAbsolute(90)).To(BeTrue())
			ctrl.Tick(0)
			Expect(ctrl.TurnToAbsolute(-90)).To(BeFalse())
			Expect(ctrl.Target()).To(Equal(90.0))

			ctrl.Cancel()
			Expect(ctrl.Outcome()).To(Equal(Cancelled))
			Expect(ctrl.TurnToAbsolute(-90)).To(BeTrue())
			Expect(ctrl.Target()).To(Equal(-90.0))
		})
	})
})
