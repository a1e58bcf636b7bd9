// Package viewport defines the interfaces the core consumes from the 3D
// viewport collaborator: a name-indexed mesh lookup whose materials accept
// a baked texture or a flat color, and a renderer capability query. A
// software implementation backs the desktop shell and the tests.
package viewport

import (
	"image"
	"image/color"
	"sync/atomic"
)

// Mesh names the core binds to.
const (
	MeshOuter = "outer" // receives the baked design texture
	MeshInner = "inner" // receives a flat color
)

// Texture is a raster bound to a material. Release frees the underlying
// renderer resource; exactly one live binding exists per material and the
// previous one must be released on replacement.
type Texture interface {
	Size() (width, height int)
	Release()
}

// Material is the appearance of a single mesh.
type Material interface {
	// SetTexture swaps the bound texture atomically with respect to the
	// render loop. It does not release the previous texture; the caller
	// owns that step.
	SetTexture(t Texture)

	// Texture returns the currently bound texture, or nil.
	Texture() Texture

	// SetColor sets a flat color (used by the inner mesh).
	SetColor(c color.RGBA)
}

// Registry is the stable name-indexed mesh lookup provided by the 3D
// scene, plus the renderer capability the texture binding needs.
type Registry interface {
	Mesh(name string) (Material, bool)

	// MaxAnisotropy returns the renderer's maximum supported anisotropic
	// filtering level.
	MaxAnisotropy() int
}

// TextureParams carries the sampling configuration applied at bind time.
type TextureParams struct {
	// SRGB marks the pixel data as sRGB-encoded, matching the source
	// canvas, so the renderer applies the color-space correction.
	SRGB bool

	// Anisotropy is the anisotropic filtering level.
	Anisotropy int
}

// softwareTexture is the in-memory Texture used by the software registry.
type softwareTexture struct {
	pixels   *image.RGBA
	params   TextureParams
	released atomic.Bool
}

// NewImageTexture wraps a baked bitmap as a Texture.
func NewImageTexture(pixels *image.RGBA, params TextureParams) Texture {
	return &softwareTexture{pixels: pixels, params: params}
}

func (t *softwareTexture) Size() (int, int) {
	b := t.pixels.Bounds()
	return b.Dx(), b.Dy()
}

func (t *softwareTexture) Release() {
	t.released.Store(true)
	t.pixels = nil
}

// Released reports whether a software texture has been released. Exposed
// for the resource-leak tests.
func Released(t Texture) bool {
	st, ok := t.(*softwareTexture)
	return ok && st.released.Load()
}

// Pixels returns the bitmap behind a software texture, or nil after
// release. The shell's preview widget reads this.
func Pixels(t Texture) *image.RGBA {
	if st, ok := t.(*softwareTexture); ok {
		return st.pixels
	}
	return nil
}

// Params returns the bind parameters of a software texture.
func Params(t Texture) TextureParams {
	if st, ok := t.(*softwareTexture); ok {
		return st.params
	}
	return TextureParams{}
}

// softwareMaterial swaps its texture through an atomic pointer so a render
// loop on another goroutine always reads a consistent reference.
type softwareMaterial struct {
	tex   atomic.Pointer[Texture]
	color atomic.Pointer[color.RGBA]
}

func (m *softwareMaterial) SetTexture(t Texture) {
	if t == nil {
		m.tex.Store(nil)
		return
	}
	m.tex.Store(&t)
}

func (m *softwareMaterial) Texture() Texture {
	p := m.tex.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (m *softwareMaterial) SetColor(c color.RGBA) {
	m.color.Store(&c)
}

// Color returns the flat color of a software material.
func (m *softwareMaterial) Color() color.RGBA {
	p := m.color.Load()
	if p == nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return *p
}

// SoftwareRegistry is an in-memory Registry with the standard outer/inner
// mesh pair.
type SoftwareRegistry struct {
	meshes     map[string]*softwareMaterial
	anisotropy int
}

// NewSoftwareRegistry creates a registry advertising the given maximum
// anisotropy level.
func NewSoftwareRegistry(maxAnisotropy int) *SoftwareRegistry {
	return &SoftwareRegistry{
		meshes: map[string]*softwareMaterial{
			MeshOuter: {},
			MeshInner: {},
		},
		anisotropy: maxAnisotropy,
	}
}

func (r *SoftwareRegistry) Mesh(name string) (Material, bool) {
	m, ok := r.meshes[name]
	return m, ok
}

func (r *SoftwareRegistry) MaxAnisotropy() int {
	return r.anisotropy
}
