package mcmc

import (
	"context"
)

// TuneScale returns a new proposal scale given the acceptance rate
// of the last tuning interval. The table is the one PyMC uses for
// its Metropolis step.
func TuneScale(scale, rate float64) float64 {
	switch {
	case rate < 0.001:
		return scale * 0.1
	case rate < 0.05:
		return scale * 0.5
	case rate < 0.2:
		return scale * 0.9
	case rate > 0.95:
		return scale * 10
	case rate > 0.75:
		return scale * 2
	case rate > 0.5:
		return scale * 1.1
	}
	return scale
}

// tune runs m.Tune steps, adjusting the scale every
// m.TuneInterval steps. Nothing is recorded.
func (m *MH) tune(ctx context.Context) error {
	log.Debugf("chain %d: tuning for %d iterations, scale=%v", m.id, m.Tune, m.Scale)
	accepted := 0
	for i := 0; i < m.Tune; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if m.step() {
			accepted++
		}
		if (i+1)%m.TuneInterval == 0 {
			rate := float64(accepted) / float64(m.TuneInterval)
			m.Scale = TuneScale(m.Scale, rate)
			log.Debugf("chain %d: tuning acceptance %.2f%%, scale=%v", m.id, 100*rate, m.Scale)
			accepted = 0
		}
	}
	return nil
}
