package texture

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockup-studio/internal/viewport"
)

func bakeTarget(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func outerTexture(t *testing.T, r viewport.Registry) viewport.Texture {
	t.Helper()
	mat, ok := r.Mesh(viewport.MeshOuter)
	require.True(t, ok)
	return mat.Texture()
}

func TestDebounceCoalescesMutations(t *testing.T) {
	clock := NewVirtualClock()
	registry := viewport.NewSoftwareRegistry(16)

	bakes := 0
	s := NewSynchronizer(registry, func(mult float64) *image.RGBA {
		bakes++
		return bakeTarget(614, 230)
	}, clock)

	for i := 0; i < 5; i++ {
		s.Schedule()
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 0, bakes)
	assert.Equal(t, PhaseScheduled, s.Phase())

	// 300ms after the last mutation: exactly one bake.
	clock.Advance(DebounceDelay)
	assert.Equal(t, 1, bakes)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.NotNil(t, outerTexture(t, registry))
}

func TestPhaseTransitions(t *testing.T) {
	clock := NewVirtualClock()
	registry := viewport.NewSoftwareRegistry(16)

	var observed Phase
	var s *Synchronizer
	s = NewSynchronizer(registry, func(float64) *image.RGBA {
		observed = s.Phase()
		return bakeTarget(10, 10)
	}, clock)

	assert.Equal(t, PhaseIdle, s.Phase())
	s.Schedule()
	assert.Equal(t, PhaseScheduled, s.Phase())

	clock.Advance(DebounceDelay)
	assert.Equal(t, PhaseBaking, observed)
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestAdaptiveMultiplier(t *testing.T) {
	clock := NewVirtualClock()
	registry := viewport.NewSoftwareRegistry(16)

	var got float64
	s := NewSynchronizer(registry, func(mult float64) *image.RGBA {
		got = mult
		return bakeTarget(10, 10)
	}, clock)

	// Default viewport width of 500 gives 1x.
	s.Schedule()
	clock.Advance(DebounceDelay)
	assert.Equal(t, 1.0, got)

	s.SetViewportWidth(1250)
	s.Schedule()
	clock.Advance(DebounceDelay)
	assert.Equal(t, 2.5, got)

	// Capped at 4x no matter how wide the viewport gets.
	s.SetViewportWidth(4000)
	assert.Equal(t, 4.0, s.Multiplier())
	s.Schedule()
	clock.Advance(DebounceDelay)
	assert.Equal(t, 4.0, got)
}

func TestBindReleasesPreviousTexture(t *testing.T) {
	registry := viewport.NewSoftwareRegistry(8)
	s := NewSynchronizer(registry, nil, NewVirtualClock())

	s.Bind(bakeTarget(10, 10))
	first := outerTexture(t, registry)
	require.NotNil(t, first)
	assert.False(t, viewport.Released(first))

	s.Bind(bakeTarget(20, 20))
	second := outerTexture(t, registry)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)

	assert.True(t, viewport.Released(first))
	assert.False(t, viewport.Released(second))

	w, h := second.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 20, h)
}

func TestBindAppliesSamplingParams(t *testing.T) {
	registry := viewport.NewSoftwareRegistry(16)
	s := NewSynchronizer(registry, nil, NewVirtualClock())

	s.Bind(bakeTarget(10, 10))
	params := viewport.Params(outerTexture(t, registry))
	assert.True(t, params.SRGB)
	assert.Equal(t, 16, params.Anisotropy)
}

func TestClearBindingReleases(t *testing.T) {
	registry := viewport.NewSoftwareRegistry(16)
	s := NewSynchronizer(registry, nil, NewVirtualClock())

	s.Bind(bakeTarget(10, 10))
	bound := outerTexture(t, registry)
	require.NotNil(t, bound)

	s.ClearBinding()
	assert.Nil(t, outerTexture(t, registry))
	assert.True(t, viewport.Released(bound))

	// Clearing with nothing bound is a no-op.
	s.ClearBinding()
}

func TestCancelPendingStopsBake(t *testing.T) {
	clock := NewVirtualClock()
	registry := viewport.NewSoftwareRegistry(16)

	bakes := 0
	s := NewSynchronizer(registry, func(float64) *image.RGBA {
		bakes++
		return bakeTarget(10, 10)
	}, clock)

	s.Schedule()
	s.CancelPending()
	assert.Equal(t, PhaseIdle, s.Phase())

	clock.Advance(time.Second)
	assert.Equal(t, 0, bakes)
	assert.Nil(t, outerTexture(t, registry))
}

func TestOnTextureUpdatedFiresAfterRebind(t *testing.T) {
	clock := NewVirtualClock()
	registry := viewport.NewSoftwareRegistry(16)

	s := NewSynchronizer(registry, func(float64) *image.RGBA {
		return bakeTarget(10, 10)
	}, clock)

	updates := 0
	s.OnTextureUpdated = func() { updates++ }

	s.Schedule()
	clock.Advance(DebounceDelay)
	assert.Equal(t, 1, updates)
}

func TestExportBypassesDebounce(t *testing.T) {
	registry := viewport.NewSoftwareRegistry(16)

	var got float64
	s := NewSynchronizer(registry, func(mult float64) *image.RGBA {
		got = mult
		return bakeTarget(4912, 1840)
	}, NewVirtualClock())

	img := s.ExportHiRes()
	require.NotNil(t, img)
	assert.Equal(t, ExportMultiplier, got)

	// Export does not touch the live binding.
	assert.Nil(t, outerTexture(t, registry))
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestMissingOuterMeshKeepsBinding(t *testing.T) {
	registry := emptyRegistry{}
	s := NewSynchronizer(registry, nil, NewVirtualClock())

	// Must not panic or bind anywhere.
	s.Bind(bakeTarget(10, 10))
	s.ClearBinding()
}

type emptyRegistry struct{}

func (emptyRegistry) Mesh(string) (viewport.Material, bool) { return nil, false }
func (emptyRegistry) MaxAnisotropy() int                    { return 1 }
