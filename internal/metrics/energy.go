package metrics

import (
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// KineticEnergy is the mean 0.5*|v|² per particle, using the Verlet
// implied velocity (pos - prev) / dt.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(ps []dynamo.Particle, dt, t float64) {
	k.value = 0
	if len(ps) == 0 || dt <= 0 {
		return
	}
	sum := 0.0
	for i := range ps {
		sum += 0.5 * ps[i].Velocity(dt).Len2()
	}
	k.value = sum / float64(len(ps))
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }

// PeakSpeed is the largest implied speed in the snapshot.
type PeakSpeed struct {
	name  string
	value float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(ps []dynamo.Particle, dt, t float64) {
	p.value = 0
	if dt <= 0 {
		return
	}
	best := 0.0
	for i := range ps {
		best = math.Max(best, ps[i].Displacement().Len2())
	}
	p.value = math.Sqrt(best) / dt
}

func (p *PeakSpeed) Value() float64 { return p.value }
func (p *PeakSpeed) Reset()         { p.value = 0 }
