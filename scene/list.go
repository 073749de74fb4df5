package scene

import "github.com/achilleasa/polaris/types"

// An ordered collection of objects that are tested one by one.
type List struct {
	objects []Intersectable
}

// Create a new list with the given objects.
func NewList(objects ...Intersectable) *List {
	return &List{
		objects: append(make([]Intersectable, 0, len(objects)), objects...),
	}
}

// Append an object to the list.
func (l *List) Add(obj Intersectable) {
	l.objects = append(l.objects, obj)
}

// Get the number of objects in the list.
func (l *List) Len() int {
	return len(l.objects)
}

// Get the list objects. The returned slice must not be modified.
func (l *List) Objects() []Intersectable {
	return l.objects
}

// Test every object in the list and return the closest hit.
func (l *List) Hit(r types.Ray, tMin, tMax float64) (HitRecord, bool) {
	var (
		closest = tMax
		out     HitRecord
		hit     bool
	)

	for _, obj := range l.objects {
		if rec, ok := obj.Hit(r, tMin, closest); ok {
			hit = true
			closest = rec.T
			out = rec
		}
	}

	return out, hit
}

// Get the box enclosing all list objects. Returns false if the list is empty
// or any object cannot be bounded.
func (l *List) BoundingBox(time0, time1 float64) (types.AABB, bool) {
	if len(l.objects) == 0 {
		return types.AABB{}, false
	}

	var out types.AABB
	for index, obj := range l.objects {
		box, ok := obj.BoundingBox(time0, time1)
		if !ok {
			return types.AABB{}, false
		}
		if index == 0 {
			out = box
			continue
		}
		out = types.SurroundingBox(out, box)
	}

	return out, true
}
