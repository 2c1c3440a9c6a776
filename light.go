package shadowrefresh

import (
	"fmt"

	"github.com/google/uuid"
)

type LightType uint32

const (
	LightTypePoint       LightType = 0
	LightTypeDirectional LightType = 1
	LightTypeSpot        LightType = 2
	LightTypeAmbient     LightType = 3
)

// LightComponent is the ECS component for lights
type LightComponent struct {
	Type         LightType
	Color        [3]float32 // RGB
	Intensity    float32
	Range        float32 // For point/spot
	ConeAngle    float32 // Full cone angle in degrees (spot)
	CastsShadows bool
}

// CanCastShadows reports whether the light has a shadow map to refresh.
func (l LightComponent) CanCastShadows() bool {
	return l.CastsShadows && l.Type != LightTypeAmbient
}

type ShadowRequestKind int

const (
	ShadowRequestFull ShadowRequestKind = iota
	ShadowRequestSubUnit
)

func (k ShadowRequestKind) String() string {
	switch k {
	case ShadowRequestFull:
		return "full"
	case ShadowRequestSubUnit:
		return "sub-unit"
	}
	return fmt.Sprintf("ShadowRequestKind(%d)", int(k))
}

// ShadowRequest asks the render pipeline to re-render (part of) a shadow map.
// Index is the cascade or sub-shadow slot for sub-unit requests.
type ShadowRequest struct {
	Light  uuid.UUID
	Entity EntityId
	Kind   ShadowRequestKind
	Index  int
	Frame  uint64
}

func (r ShadowRequest) String() string {
	if r.Kind == ShadowRequestFull {
		return fmt.Sprintf("frame %d: light %v (%s) full shadow map", r.Frame, r.Entity, r.Light)
	}
	return fmt.Sprintf("frame %d: light %v (%s) sub-unit %d", r.Frame, r.Entity, r.Light, r.Index)
}

// ShadowRequestQueue collects shadow render requests until the render
// pipeline drains them. Requests are kept in issue order.
type ShadowRequestQueue struct {
	requests []ShadowRequest
}

func (q *ShadowRequestQueue) push(r ShadowRequest) {
	q.requests = append(q.requests, r)
}

func (q *ShadowRequestQueue) Pending() int {
	return len(q.requests)
}

// Drain returns every queued request and empties the queue.
func (q *ShadowRequestQueue) Drain() []ShadowRequest {
	drained := q.requests
	q.requests = nil
	return drained
}

// queuedLight is the shadow.LightResource of one light entity. Requests are
// fire-and-forget appends to the shared queue.
type queuedLight struct {
	id     uuid.UUID
	entity EntityId
	queue  *ShadowRequestQueue
	time   *Time
}

func (l *queuedLight) RequestFullRefresh() {
	l.queue.push(ShadowRequest{
		Light:  l.id,
		Entity: l.entity,
		Kind:   ShadowRequestFull,
		Frame:  l.time.Frame,
	})
}

func (l *queuedLight) RequestSubUnitRefresh(index int) {
	l.queue.push(ShadowRequest{
		Light:  l.id,
		Entity: l.entity,
		Kind:   ShadowRequestSubUnit,
		Index:  index,
		Frame:  l.time.Frame,
	})
}
