package shadow

import (
	"fmt"
	"reflect"
)

// Number of shadow cascades and sub-shadows a light can refresh
// individually.
const (
	NumCascades   = 4
	NumSubshadows = 6
)

// RefreshTarget selects which counter group advances each frame.
type RefreshTarget int

const (
	RefreshFullMap RefreshTarget = iota
	RefreshCascades
	RefreshSubshadows
)

func (t RefreshTarget) String() string {
	switch t {
	case RefreshFullMap:
		return "full_map"
	case RefreshCascades:
		return "cascades"
	case RefreshSubshadows:
		return "subshadows"
	}
	return fmt.Sprintf("RefreshTarget(%d)", int(t))
}

func (t RefreshTarget) valid() bool {
	return t >= RefreshFullMap && t <= RefreshSubshadows
}

func (t RefreshTarget) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("invalid refresh target %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *RefreshTarget) UnmarshalText(text []byte) error {
	switch string(text) {
	case "full_map", "full", "entire":
		*t = RefreshFullMap
	case "cascades":
		*t = RefreshCascades
	case "subshadows":
		*t = RefreshSubshadows
	default:
		return fmt.Errorf("unknown refresh target %q", string(text))
	}
	return nil
}

// CounterBasis selects the unit thresholds and counters are measured in.
type CounterBasis int

const (
	CountFrames CounterBasis = iota
	CountSeconds
)

func (b CounterBasis) String() string {
	switch b {
	case CountFrames:
		return "frames"
	case CountSeconds:
		return "seconds"
	}
	return fmt.Sprintf("CounterBasis(%d)", int(b))
}

func (b CounterBasis) valid() bool {
	return b == CountFrames || b == CountSeconds
}

func (b CounterBasis) MarshalText() ([]byte, error) {
	if !b.valid() {
		return nil, fmt.Errorf("invalid counter basis %d", int(b))
	}
	return []byte(b.String()), nil
}

func (b *CounterBasis) UnmarshalText(text []byte) error {
	switch string(text) {
	case "frames":
		*b = CountFrames
	case "seconds":
		*b = CountSeconds
	default:
		return fmt.Errorf("unknown counter basis %q", string(text))
	}
	return nil
}

// LightResource is the shadow-casting light whose renders are requested.
// Both calls are fire-and-forget enqueues into the render pipeline.
type LightResource interface {
	RequestFullRefresh()
	RequestSubUnitRefresh(index int)
}

// Viewpoint is a tracked object whose "moved" flag is maintained by the host.
type Viewpoint interface {
	TransformChangedSinceLastQuery() bool
	ClearChangedFlag()
}

// ViewpointResolver returns a default viewpoint, usually the main camera.
type ViewpointResolver func() (Viewpoint, bool)

// Logger receives the scheduler's diagnostics. Hosts usually pass their
// engine logger.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// isNil reports whether v is nil, including a nil pointer stored in an
// interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
