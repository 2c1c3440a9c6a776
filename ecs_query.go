package shadowrefresh

// Queries visit every entity that has all requested components, in archetype
// then entity id order. A component passed in optionals may be missing, in
// which case its pointer is nil. Returning false from the callback stops the
// iteration.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }

type column[T any] struct {
	data   []T
	absent bool
}

func (c column[T]) at(r row) *T {
	if c.absent {
		return nil
	}
	return &c.data[r]
}

func columnOf[T any](ecs *Ecs, arch *archetype, opt set[componentId]) (column[T], bool) {
	id := componentIdOf[T](ecs)
	if data, ok := arch.componentData[id]; ok {
		return column[T]{data: data.([]T)}, true
	}
	if _, ok := opt[id]; ok {
		return column[T]{absent: true}, true
	}
	return column[T]{}, false
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.sortedArchetypes() {
		a, ok := columnOf[A](q.ecs, arch, opt)
		if !ok {
			continue
		}
		for _, eid := range arch.sortedEntities() {
			r := arch.entities[eid]
			if !m(eid, a.at(r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.sortedArchetypes() {
		a, ok := columnOf[A](q.ecs, arch, opt)
		if !ok {
			continue
		}
		b, ok := columnOf[B](q.ecs, arch, opt)
		if !ok {
			continue
		}
		for _, eid := range arch.sortedEntities() {
			r := arch.entities[eid]
			if !m(eid, a.at(r), b.at(r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.sortedArchetypes() {
		a, ok := columnOf[A](q.ecs, arch, opt)
		if !ok {
			continue
		}
		b, ok := columnOf[B](q.ecs, arch, opt)
		if !ok {
			continue
		}
		c, ok := columnOf[C](q.ecs, arch, opt)
		if !ok {
			continue
		}
		for _, eid := range arch.sortedEntities() {
			r := arch.entities[eid]
			if !m(eid, a.at(r), b.at(r), c.at(r)) {
				return
			}
		}
	}
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentType(c))] = struct{}{}
	}

	return res
}
