// Package app provides the session object that owns the design surface,
// constraint engine, history stack, and texture synchronizer, and exposes
// the command set consumed by the UI.
package app

import (
	"image"
	"sync"

	"mockup-studio/internal/assets"
	"mockup-studio/internal/constraint"
	"mockup-studio/internal/design"
	"mockup-studio/internal/history"
	"mockup-studio/internal/raster"
	"mockup-studio/internal/texture"
	"mockup-studio/internal/viewport"
	"mockup-studio/pkg/colorutil"
	"mockup-studio/pkg/geometry"
)

// EventType identifies the session events the UI subscribes to.
type EventType int

const (
	EventLayersChanged EventType = iota
	EventSelectionChanged
	EventBoundaryViolation
	EventTextureUpdated
	EventLoadFailed
	EventModified
	EventReset
)

// EventListener is called when an event occurs. Listeners run synchronously
// on the emitting goroutine and must not invoke mutating session commands.
type EventListener func(data interface{})

// ViolationData accompanies EventBoundaryViolation.
type ViolationData struct {
	ObjectID string
	Label    string
}

// Session is the application root context: it owns all core components and
// is passed by reference to every collaborator. No ambient singletons.
type Session struct {
	mu sync.Mutex

	surface  *design.Surface
	engine   *constraint.Engine
	history  *history.Stack
	sync     *texture.Synchronizer
	viewport viewport.Registry
	store    *assets.Store
	loader   *assets.Loader

	listenerMu sync.RWMutex
	listeners  map[EventType][]EventListener
}

// NewSession creates a session for a canvas of the given size, bound to the
// 3D viewport registry. A nil clock uses the wall clock for the debounce.
func NewSession(width, height float64, registry viewport.Registry, clock texture.Clock) *Session {
	s := &Session{
		surface:   design.NewSurface(width, height),
		history:   history.NewStack(history.DefaultDepth),
		viewport:  registry,
		store:     assets.NewStore(),
		listeners: make(map[EventType][]EventListener),
	}
	s.loader = assets.NewLoader(s.store)
	s.surface.SetPixelResolver(s.store.Lookup)

	s.engine = &constraint.Engine{
		OnViolation: func(o design.Object, _ geometry.Rect) {
			s.Emit(EventBoundaryViolation, ViolationData{
				ObjectID: o.ObjectID(),
				Label:    o.Label(),
			})
		},
	}

	s.sync = texture.NewSynchronizer(registry, s.renderBake, clock)
	s.sync.OnTextureUpdated = func() {
		s.Emit(EventTextureUpdated, nil)
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.listenerMu.Lock()
	s.listeners[event] = append(s.listeners[event], listener)
	s.listenerMu.Unlock()
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.listenerMu.RLock()
	listeners := s.listeners[event]
	s.listenerMu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Surface exposes the design surface for read-only collaborators (the
// preview widget). Mutation goes through the session commands.
func (s *Session) Surface() *design.Surface {
	return s.surface
}

// Synchronizer exposes the texture synchronizer (tests, status display).
func (s *Session) Synchronizer() *texture.Synchronizer {
	return s.sync
}

// History exposes the undo stack length for UI state.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// renderBake rasterizes the surface for a bake or export, with the
// export-excluded overlays left out.
func (s *Session) renderBake(multiplier float64) *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return raster.Render(s.surface, raster.Options{Multiplier: multiplier})
}

// Preview rasterizes the surface with zone and guide overlays for the 2D
// canvas widget.
func (s *Session) Preview(multiplier float64) *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return raster.Render(s.surface, raster.Options{
		Multiplier:      multiplier,
		IncludeOverlays: true,
		Background:      colorutil.White,
	})
}
