package design

import (
	"fmt"
	"image"
	"iter"
)

// PixelResolver maps a source ref back to decoded pixels when a snapshot is
// restored. Typically backed by the session's asset store.
type PixelResolver func(sourceRef string) image.Image

// Surface owns the ordered collection of design objects plus the derived
// zones and guides. Slice order is z order: index 0 renders first (bottom).
type Surface struct {
	width  float64
	height float64

	objects []Object
	zones   Zones
	guides  Guides

	activeID string
	resolve  PixelResolver
	idSeq    int
}

// NewSurface creates an empty surface for the given canvas dimensions.
func NewSurface(width, height float64) *Surface {
	return &Surface{
		width:  width,
		height: height,
		zones:  ComputeZones(width, height),
	}
}

// SetPixelResolver installs the resolver used to re-bind image pixels when
// restoring a snapshot.
func (s *Surface) SetPixelResolver(r PixelResolver) {
	s.resolve = r
}

// Size returns the canvas dimensions.
func (s *Surface) Size() (width, height float64) {
	return s.width, s.height
}

// Zones returns the current safe/bleed rectangles.
func (s *Surface) Zones() Zones {
	return s.zones
}

// Guides returns the transient alignment guide flags.
func (s *Surface) Guides() *Guides {
	return &s.guides
}

// Resize updates the canvas dimensions and recomputes the zones. Existing
// objects are left in place; the caller refits pattern and clip regions.
func (s *Surface) Resize(width, height float64) {
	s.width = width
	s.height = height
	s.zones = ComputeZones(width, height)
}

// Add inserts an object. Regular objects go on top; a pattern goes to the
// bottom and evicts any existing pattern first (mutual exclusion).
func (s *Surface) Add(o Object) {
	if o.ObjectID() == "" {
		s.idSeq++
		o.Common().ID = fmt.Sprintf("%s-%d", o.ObjectKind(), s.idSeq)
	}
	if o.ObjectKind() == KindPattern {
		if prev := s.Pattern(); prev != nil {
			s.Remove(prev)
		}
		s.objects = append([]Object{o}, s.objects...)
	} else {
		s.objects = append(s.objects, o)
	}
	s.renumber()
}

// Remove deletes an object by identity. Returns false if it is not on the
// surface. The active selection is cleared if it pointed at the object.
func (s *Surface) Remove(o Object) bool {
	for i, cur := range s.objects {
		if cur == o || cur.ObjectID() == o.ObjectID() {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			if s.activeID == cur.ObjectID() {
				s.activeID = ""
			}
			s.renumber()
			return true
		}
	}
	return false
}

// BringToFront moves the object to the top of the z order.
func (s *Surface) BringToFront(o Object) {
	if !s.Remove(o) {
		return
	}
	s.objects = append(s.objects, o)
	s.renumber()
}

// SendToBack moves the object to the bottom of the z order.
func (s *Surface) SendToBack(o Object) {
	if !s.Remove(o) {
		return
	}
	s.objects = append([]Object{o}, s.objects...)
	s.renumber()
}

// renumber reassigns ZIndex to match slice order.
func (s *Surface) renumber() {
	for i, o := range s.objects {
		o.Common().ZIndex = i
	}
}

// Objects returns the objects in render order (bottom first).
func (s *Surface) Objects() []Object {
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Len returns the number of objects on the surface.
func (s *Surface) Len() int {
	return len(s.objects)
}

// ListDesignObjects yields the user-facing objects in z order, skipping
// anything flagged ExcludeFromLayers. The sequence is finite and can be
// ranged over repeatedly.
func (s *Surface) ListDesignObjects() iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for _, o := range s.objects {
			if o.Common().ExcludeFromLayers {
				continue
			}
			if !yield(o) {
				return
			}
		}
	}
}

// Pattern returns the current pattern object, or nil.
func (s *Surface) Pattern() *PatternObject {
	for _, o := range s.objects {
		if p, ok := o.(*PatternObject); ok {
			return p
		}
	}
	return nil
}

// FindByID returns the object with the given id, or nil.
func (s *Surface) FindByID(id string) Object {
	for _, o := range s.objects {
		if o.ObjectID() == id {
			return o
		}
	}
	return nil
}

// SetActive marks an object as the current selection. An empty id clears
// the selection.
func (s *Surface) SetActive(id string) {
	s.activeID = id
}

// Active returns the selected object, or nil.
func (s *Surface) Active() Object {
	if s.activeID == "" {
		return nil
	}
	return s.FindByID(s.activeID)
}

// Clear removes every object and the selection. Zones are left in place.
func (s *Surface) Clear() {
	s.objects = nil
	s.activeID = ""
	s.guides.Reset()
}
