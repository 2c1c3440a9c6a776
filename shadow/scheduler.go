// Package shadow decides, frame by frame, when a shadow-casting light should
// re-render its shadow map. Rendering itself happens elsewhere; the scheduler
// only issues requests through a LightResource.
//
// A Scheduler is driven by the host with one Step and one CheckCameraMotion
// call per frame. It is not safe for concurrent use; independent lights use
// independent schedulers.
package shadow

import (
	"errors"
	"math"
)

var (
	ErrNoLightResource = errors.New("shadow: no light resource to request renders from")
	ErrNoViewpoint     = errors.New("shadow: no viewpoint to track for camera motion")
)

// Scheduler decides when one light refreshes its shadow map.
type Scheduler struct {
	light    LightResource
	logger   Logger
	cfg      Config
	counters Counters

	viewpoint        Viewpoint
	resolveViewpoint ViewpointResolver
	motionDisabled   bool

	// Set when construction failed. Never cleared.
	inert bool
}

// Option configures a Scheduler in New.
type Option func(*Scheduler)

func WithConfig(cfg Config) Option {
	return func(s *Scheduler) { s.cfg = cfg }
}

func WithLogger(logger Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithViewpoint sets the viewpoint tracked by the camera motion trigger.
func WithViewpoint(vp Viewpoint) Option {
	return func(s *Scheduler) {
		if !isNil(vp) {
			s.viewpoint = vp
		}
	}
}

// WithViewpointResolver sets the fallback used when no viewpoint is set.
func WithViewpointResolver(resolve ViewpointResolver) Option {
	return func(s *Scheduler) { s.resolveViewpoint = resolve }
}

// New creates a scheduler for light with all counters at zero.
//
// A nil light, or a nil pointer passed as one, yields an inert scheduler and
// ErrNoLightResource. The returned scheduler is still usable: Step and
// CheckCameraMotion are no-ops on it, so a host can keep calling them every
// frame without further checks.
func New(light LightResource, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		light:  light,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg = s.cfg.Sanitize()
	s.ResetCounters()

	if isNil(light) {
		s.light = nil
		s.inert = true
		s.logger.Errorf("shadow refresh disabled: %v", ErrNoLightResource)
		return s, ErrNoLightResource
	}
	return s, nil
}

// Active reports whether the scheduler may issue render requests at all.
func (s *Scheduler) Active() bool {
	return !s.inert
}

func (s *Scheduler) Config() Config {
	return s.cfg
}

// SetConfig replaces the configuration. Counters are kept, so a group that
// becomes active again resumes where it stopped.
func (s *Scheduler) SetConfig(cfg Config) {
	s.cfg = cfg.Sanitize()
}

// Counters returns a snapshot of every unit counter.
func (s *Scheduler) Counters() Counters {
	return s.counters
}

func (s *Scheduler) ResetCounters() {
	s.counters = Counters{}
}

// SetViewpoint replaces the tracked viewpoint. A non-nil viewpoint re-arms a
// motion trigger that was disabled because no default could be resolved.
func (s *Scheduler) SetViewpoint(vp Viewpoint) {
	if isNil(vp) {
		vp = nil
	}
	s.viewpoint = vp
	if vp != nil {
		s.motionDisabled = false
	}
}

// MotionTriggerActive reports whether CheckCameraMotion can currently fire.
func (s *Scheduler) MotionTriggerActive() bool {
	return !s.inert && s.cfg.MotionTrigger && !s.motionDisabled
}

// Step advances the counters of the active target by one frame of dt seconds
// and requests a render for every unit whose threshold has been reached.
// Requests are issued in ascending unit order.
func (s *Scheduler) Step(dt float64) {
	if s.inert {
		return
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}

	thresholds := s.cfg.Thresholds()
	for i, c := range s.counters.units(s.cfg.Target) {
		if !s.tick(c, thresholds[i], dt) {
			continue
		}
		if s.cfg.Target == RefreshFullMap {
			s.logger.Debugf("shadow: full map refresh")
			s.light.RequestFullRefresh()
			continue
		}
		s.logger.Debugf("shadow: %s %d refresh", s.cfg.Target, i)
		s.light.RequestSubUnitRefresh(i)
	}
}

// tick advances c and reports whether its unit is due, resetting c if so.
func (s *Scheduler) tick(c *Counter, t Threshold, dt float64) bool {
	c.advance(s.cfg.Basis, dt)
	if !c.due(s.cfg.Basis, t) {
		return false
	}
	c.reset(s.cfg.Basis)
	return true
}

// CheckCameraMotion requests a full map refresh when the tracked viewpoint
// has moved since the previous check, then clears its changed flag. It runs
// independently of Step and of the refresh target.
func (s *Scheduler) CheckCameraMotion() {
	if s.inert || !s.cfg.MotionTrigger {
		return
	}
	vp := s.trackedViewpoint()
	if vp == nil {
		return
	}
	if !vp.TransformChangedSinceLastQuery() {
		return
	}
	s.logger.Debugf("shadow: tracked viewpoint moved, full map refresh")
	s.light.RequestFullRefresh()
	vp.ClearChangedFlag()
}

func (s *Scheduler) trackedViewpoint() Viewpoint {
	if s.viewpoint != nil {
		return s.viewpoint
	}
	if s.motionDisabled {
		return nil
	}
	if s.resolveViewpoint != nil {
		if vp, ok := s.resolveViewpoint(); ok && vp != nil {
			return vp
		}
	}
	s.motionDisabled = true
	s.logger.Warnf("camera motion trigger disabled: %v", ErrNoViewpoint)
	return nil
}
