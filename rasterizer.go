package pixparse

import (
	"image"
	"slices"
	"sync"

	intImage "github.com/gogpu/pixparse/internal/image"
)

// Rasterizer turns a decoded image into straight RGBA8 bytes.
//
// Rasterize writes src in storage order, starting at the top-left of
// src.Bounds(), into dst with a stride of Dx*4. dst is exactly Dx*Dy*4
// zeroed bytes; every byte must be written. Sources without alpha must
// produce A=255 and premultiplied sources must be unpremultiplied.
// Orientation is applied by the Extractor, not the Rasterizer.
//
// Implementations must be safe for concurrent use and must not retain dst.
type Rasterizer interface {
	// Name returns the registry name of the rasterizer.
	Name() string

	// Rasterize converts src into dst.
	Rasterize(dst []byte, src image.Image) error
}

// Built-in rasterizer names.
const (
	// RasterizerSoftware converts the standard library image types with
	// dedicated loops and falls back to At() for everything else.
	RasterizerSoftware = "software"

	// RasterizerXDraw composes the source onto an NRGBA view of dst with
	// golang.org/x/image/draw.
	RasterizerXDraw = "xdraw"
)

// RasterizerFactory creates a Rasterizer.
type RasterizerFactory func() Rasterizer

var (
	registryMu  sync.RWMutex
	rasterizers = map[string]RasterizerFactory{
		RasterizerSoftware: func() Rasterizer { return softwareRasterizer{} },
		RasterizerXDraw:    func() Rasterizer { return xdrawRasterizer{} },
	}
	// Priority order for DefaultRasterizer (first registered wins).
	rasterizerPriority = []string{RasterizerSoftware, RasterizerXDraw}
)

// RegisterRasterizer registers a rasterizer factory under name.
// If a rasterizer with the same name is already registered, it is replaced.
func RegisterRasterizer(name string, factory RasterizerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	rasterizers[name] = factory
}

// UnregisterRasterizer removes a rasterizer from the registry.
func UnregisterRasterizer(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(rasterizers, name)
}

// Rasterizers returns the sorted names of all registered rasterizers.
func Rasterizers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(rasterizers))
	for name := range rasterizers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupRasterizer returns a new instance of the named rasterizer,
// or nil if it is not registered.
func LookupRasterizer(name string) Rasterizer {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := rasterizers[name]
	if !ok {
		return nil
	}
	return factory()
}

// DefaultRasterizer returns the highest-priority registered rasterizer.
// Returns nil if the registry is empty.
func DefaultRasterizer() Rasterizer {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range rasterizerPriority {
		if factory, ok := rasterizers[name]; ok {
			if r := factory(); r != nil {
				return r
			}
		}
	}

	// Fallback: first custom rasterizer by name.
	names := make([]string, 0, len(rasterizers))
	for name := range rasterizers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if r := rasterizers[name](); r != nil {
			return r
		}
	}
	return nil
}

// softwareRasterizer is the pure Go per-layout converter.
type softwareRasterizer struct{}

func (softwareRasterizer) Name() string { return RasterizerSoftware }

func (softwareRasterizer) Rasterize(dst []byte, src image.Image) error {
	return intImage.ToRGBA8(dst, src)
}
