package shadow

import "math"

// Counter is the time a unit has waited since its last refresh, in both bases.
// Only the active basis advances.
type Counter struct {
	Frames  int
	Seconds float64
}

func (c *Counter) advance(basis CounterBasis, dt float64) {
	switch basis {
	case CountFrames:
		// Disabled units keep counting for as long as the light lives.
		if c.Frames < math.MaxInt {
			c.Frames++
		}
	case CountSeconds:
		c.Seconds += dt
	}
}

func (c *Counter) due(basis CounterBasis, t Threshold) bool {
	switch basis {
	case CountFrames:
		return t.Frames > 0 && c.Frames >= t.Frames
	case CountSeconds:
		return t.Seconds > 0 && c.Seconds >= t.Seconds
	}
	return false
}

func (c *Counter) reset(basis CounterBasis) {
	switch basis {
	case CountFrames:
		c.Frames = 0
	case CountSeconds:
		c.Seconds = 0
	}
}

// Counters mirrors the shape of the thresholds in Config.
type Counters struct {
	FullMap    Counter
	Cascades   [NumCascades]Counter
	Subshadows [NumSubshadows]Counter
}

// units returns the counters scheduled by target, in unit order.
func (c *Counters) units(target RefreshTarget) []*Counter {
	var group []Counter
	switch target {
	case RefreshCascades:
		group = c.Cascades[:]
	case RefreshSubshadows:
		group = c.Subshadows[:]
	default:
		return []*Counter{&c.FullMap}
	}
	ptrs := make([]*Counter, len(group))
	for i := range group {
		ptrs[i] = &group[i]
	}
	return ptrs
}
