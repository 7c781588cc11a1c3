package turret

import (
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/turretlab/internal/angle"
)

// loopRig closes the loop with an ideal actuator: each tick the turret moves
// degPerTick * output degrees.
type loopRig struct {
	cfg        Config
	enc        *fakeEncoder
	motor      *fakeMotor
	ctrl       *Controller
	target     float64
	targetSeen bool
	halfFOV    float64
	degPerTick float64
	gain       float64
	peak       float64
}

func newLoopRig(startAngle, target float64) *loopRig {
	cfg := DefaultConfig()
	r := &loopRig{
		cfg:        cfg,
		enc:        &fakeEncoder{},
		motor:      &fakeMotor{},
		target:     target,
		targetSeen: true,
		halfFOV:    30,
		degPerTick: 8,
		gain:       0.01,
	}
	ctrl, err := New(cfg, r.enc, r.motor, WithLogger(slog.New(slog.DiscardHandler)))
	Expect(err).NotTo(HaveOccurred())
	r.ctrl = ctrl
	setAngle(r.enc, cfg, startAngle)
	return r
}

func (r *loopRig) feed() (float64, bool) {
	offset := angle.Normalize180(r.ctrl.AngleDegrees() - r.target)
	return offset, r.targetSeen && math.Abs(offset) <= r.halfFOV
}

func (r *loopRig) tick() {
	offset, visible := r.feed()
	if !visible {
		offset = 0
	}
	r.ctrl.SetOutput(r.ctrl.Update(offset, r.gain, visible))
	deg := r.motor.last * r.degPerTick
	r.enc.pos += angle.DegreesToRotations(deg, r.cfg.GearRatio)
	if a := math.Abs(r.ctrl.AngleDegrees()); a > r.peak {
		r.peak = a
	}
}

var _ = Describe("wrap loop", func() {
	It("unwinds past the trigger and reacquires the target on the other side", func() {
		r := newLoopRig(346, 350)

		r.tick()
		Expect(r.ctrl.IsWrapping()).To(BeTrue())
		Expect(r.ctrl.WrapDirection()).To(Equal(-1))

		for i := 0; i < 400 && r.ctrl.IsWrapping(); i++ {
			r.tick()
		}
		Expect(r.ctrl.IsWrapping()).To(BeFalse())
		Expect(r.ctrl.LastExit()).To(Equal(Reacquired))
		Expect(r.ctrl.WrapDirection()).To(Equal(0))
		Expect(r.ctrl.WrapTravel()).To(BeZero())

		for i := 0; i < 200; i++ {
			r.tick()
		}
		Expect(r.ctrl.AngleDegrees()).To(BeNumerically("~", -10, 0.5))
		Expect(r.ctrl.WrapCount()).To(Equal(1))
		Expect(r.peak).To(BeNumerically("<=", r.cfg.TravelLimit))
	})

	It("gives up after the maximum travel when the target never returns", func() {
		r := newLoopRig(-346, -350)

		r.tick()
		Expect(r.ctrl.IsWrapping()).To(BeTrue())
		Expect(r.ctrl.WrapDirection()).To(Equal(1))
		r.targetSeen = false

		for i := 0; i < 400 && r.ctrl.IsWrapping(); i++ {
			r.tick()
		}
		Expect(r.ctrl.IsWrapping()).To(BeFalse())
		Expect(r.ctrl.LastExit()).To(Equal(Exhausted))
		Expect(math.Abs(r.ctrl.AngleDegrees())).To(BeNumerically("<", r.cfg.WrapTrigger))

		r.tick()
		Expect(r.motor.last).To(BeZero())
	})
})
