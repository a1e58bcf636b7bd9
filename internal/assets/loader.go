// Package assets decodes and caches the image sources referenced by design
// objects. Loading is a structured asynchronous operation: it returns a
// Result through a callback, and starting a new load supersedes any load
// still in flight.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Result is the outcome of a load: either an image or a failure reason.
type Result struct {
	Ref   string
	Image image.Image
	Err   error
}

// Store is the in-memory registry of decoded sources, keyed by ref.
// Snapshot restore re-binds object pixels through it.
type Store struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{images: make(map[string]image.Image)}
}

// Register records a decoded source under its ref, replacing any previous
// entry.
func (s *Store) Register(ref string, img image.Image) {
	s.mu.Lock()
	s.images[ref] = img
	s.mu.Unlock()
}

// Lookup returns the decoded source for a ref, or nil.
func (s *Store) Lookup(ref string) image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.images[ref]
}

// Loader decodes sources off the UI flow. At most one load is in flight;
// a newer load cancels the older one, whose callback then never fires.
type Loader struct {
	store *Store

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewLoader creates a loader registering successes into the store.
func NewLoader(store *Store) *Loader {
	return &Loader{store: store}
}

// Load decodes data and delivers a Result to done. A load started while
// another is pending supersedes it: the earlier done callback is dropped.
// done runs on the loader's goroutine.
func (l *Loader) Load(ref string, data []byte, done func(Result)) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.mu.Unlock()

	go func() {
		img, _, err := image.Decode(bytes.NewReader(data))

		// Deliver under the loader lock so a supersede that happens
		// between decode and delivery still drops this result.
		l.mu.Lock()
		defer l.mu.Unlock()
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			done(Result{Ref: ref, Err: fmt.Errorf("decode %s: %w", ref, err)})
			return
		}
		l.store.Register(ref, img)
		done(Result{Ref: ref, Image: img})
	}()
}

// LoadDir decodes every image file in dir into the store, keyed by base
// name. Used by the headless renderer to rebuild the pixel bindings of a
// snapshot. Files that do not decode as images are skipped.
func (s *Store) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read asset dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", path, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			log.Printf("assets: skipping %s: %v", path, err)
			continue
		}
		s.Register(e.Name(), img)
	}
	return nil
}
