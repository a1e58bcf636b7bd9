package texture

import (
	"image"
	"log"
	"math"
	"sync"
	"time"

	"mockup-studio/internal/viewport"
)

// DebounceDelay is the quiescence window after the last mutation before a
// bake runs.
const DebounceDelay = 300 * time.Millisecond

// ExportMultiplier is the fixed resolution multiplier of the manual
// high-resolution export path.
const ExportMultiplier = 8.0

// maxLiveMultiplier caps the adaptive multiplier of the live bake.
const maxLiveMultiplier = 4.0

// Phase is the synchronizer state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScheduled
	PhaseBaking
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScheduled:
		return "scheduled"
	case PhaseBaking:
		return "baking"
	default:
		return "unknown"
	}
}

// RenderFunc rasterizes the design surface at the given multiplier with
// export-excluded overlays hidden. Provided by the session so the
// synchronizer never owns design objects.
type RenderFunc func(multiplier float64) *image.RGBA

// Synchronizer debounces surface mutations and rebinds the baked bitmap
// as the outer mesh texture. State machine: Idle → Scheduled → Baking →
// Idle; a mutation during Scheduled restarts the delay, so a burst bakes
// once. A bake in flight is never cancelled.
type Synchronizer struct {
	registry viewport.Registry
	render   RenderFunc
	sched    *Scheduler

	mu            sync.Mutex
	phase         Phase
	viewportWidth float64

	// OnTextureUpdated, if set, is invoked after every successful rebind.
	OnTextureUpdated func()
}

// NewSynchronizer creates a synchronizer binding bakes into the registry's
// outer mesh. A nil clock uses the wall clock.
func NewSynchronizer(registry viewport.Registry, render RenderFunc, clock Clock) *Synchronizer {
	return &Synchronizer{
		registry:      registry,
		render:        render,
		sched:         NewScheduler(clock),
		viewportWidth: 500,
	}
}

// Phase returns the current state.
func (s *Synchronizer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SetViewportWidth records the 3D viewport width driving the adaptive
// multiplier.
func (s *Synchronizer) SetViewportWidth(w float64) {
	s.mu.Lock()
	s.viewportWidth = w
	s.mu.Unlock()
}

// Multiplier returns the adaptive live-bake resolution multiplier.
func (s *Synchronizer) Multiplier() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return math.Min(maxLiveMultiplier, s.viewportWidth/500)
}

// Schedule registers a committed mutation. Restarts the debounce timer;
// at most one bake runs per quiescent burst.
func (s *Synchronizer) Schedule() {
	s.mu.Lock()
	if s.phase == PhaseIdle || s.phase == PhaseScheduled {
		s.phase = PhaseScheduled
	}
	s.mu.Unlock()

	s.sched.Schedule(DebounceDelay, s.bake)
}

// CancelPending drops a scheduled bake without running it. Used on full
// reset, where the texture is cleared directly.
func (s *Synchronizer) CancelPending() {
	s.sched.Cancel()
	s.mu.Lock()
	if s.phase == PhaseScheduled {
		s.phase = PhaseIdle
	}
	s.mu.Unlock()
}

// bake rasterizes and rebinds. Runs on the scheduler's goroutine; the
// render function is responsible for its own locking.
func (s *Synchronizer) bake() {
	s.mu.Lock()
	s.phase = PhaseBaking
	mult := math.Min(maxLiveMultiplier, s.viewportWidth/500)
	s.mu.Unlock()

	img := s.render(mult)
	if img != nil {
		s.Bind(img)
	}

	s.mu.Lock()
	s.phase = PhaseIdle
	s.mu.Unlock()

	if img != nil && s.OnTextureUpdated != nil {
		s.OnTextureUpdated()
	}
}

// Bind wraps a baked bitmap as a texture with the renderer's maximum
// anisotropy and sRGB correction, swaps it onto the outer mesh, and
// releases the previously bound texture. A missing outer mesh leaves the
// prior binding untouched.
func (s *Synchronizer) Bind(img *image.RGBA) {
	mat, ok := s.registry.Mesh(viewport.MeshOuter)
	if !ok {
		log.Printf("texture: no %q mesh in viewport, keeping previous binding", viewport.MeshOuter)
		return
	}

	tex := viewport.NewImageTexture(img, viewport.TextureParams{
		SRGB:       true,
		Anisotropy: s.registry.MaxAnisotropy(),
	})

	prev := mat.Texture()
	mat.SetTexture(tex)
	if prev != nil {
		prev.Release()
	}
}

// ClearBinding releases and unbinds the outer mesh texture. Used on full
// design reset.
func (s *Synchronizer) ClearBinding() {
	mat, ok := s.registry.Mesh(viewport.MeshOuter)
	if !ok {
		return
	}
	prev := mat.Texture()
	mat.SetTexture(nil)
	if prev != nil {
		prev.Release()
	}
}

// ExportHiRes rasterizes at the fixed export multiplier, bypassing the
// debounce and the live binding. The same hide/show bracketing applies
// inside the render function.
func (s *Synchronizer) ExportHiRes() *image.RGBA {
	return s.render(ExportMultiplier)
}
