package compositor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gogpu/compositor/internal/cache"
	"github.com/gogpu/compositor/internal/color"
	"github.com/gogpu/compositor/internal/image"
)

// ImageRef names an image and how to decode it.
type ImageRef struct {
	// Path identifies the image. File sources resolve it relative to their
	// directory.
	Path string

	// ColorSpace is "srgb" (default) or "linear".
	ColorSpace string

	// FitWidth and FitHeight, when both positive, rescale the image to that
	// size on load.
	FitWidth, FitHeight int
}

// ImageSource provides the pixels of image nodes. Implementations must be
// safe for concurrent use. Returned buffers are shared and must not be
// modified.
type ImageSource interface {
	Image(ref ImageRef) (*MemoryBuffer, error)
}

// DefaultImageCacheBytes bounds the decoded pixels a FileImageSource keeps.
const DefaultImageCacheBytes = 512 << 20

// FileImageSource loads images from disk. Decoded images are cached by
// reference and reloaded when the file's size or modification time changes.
type FileImageSource struct {
	dir string

	// mu serialises decoding so concurrent lookups of one file decode it once.
	mu    sync.Mutex
	cache *cache.Cache[ImageRef, cachedImage]
}

type cachedImage struct {
	buf     *MemoryBuffer
	modTime time.Time
	size    int64
}

// NewFileImageSource creates a source resolving relative paths against dir.
func NewFileImageSource(dir string) *FileImageSource {
	return NewFileImageSourceLimit(dir, DefaultImageCacheBytes)
}

// NewFileImageSourceLimit is like NewFileImageSource with a custom cache
// bound in bytes of decoded pixels. A limit of 0 or less disables the bound.
func NewFileImageSourceLimit(dir string, limit int64) *FileImageSource {
	return &FileImageSource{dir: dir, cache: cache.New[ImageRef, cachedImage](limit)}
}

// Image loads the referenced file.
func (s *FileImageSource) Image(ref ImageRef) (*MemoryBuffer, error) {
	space, err := color.ParseColorSpace(ref.ColorSpace)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProperty, err)
	}
	path := ref.Path
	if !filepath.IsAbs(path) && s.dir != "" {
		path = filepath.Join(s.dir, path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, err
	}
	if c, ok := s.cache.Get(ref); ok && c.size == info.Size() && c.modTime.Equal(info.ModTime()) {
		return c.buf, nil
	}

	fb, err := image.Load(path, image.LoadOptions{
		Space:     space,
		FitWidth:  ref.FitWidth,
		FitHeight: ref.FitHeight,
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, err
	}
	buf := wrapFloatBuf(fb)
	s.cache.Put(ref, cachedImage{buf: buf, modTime: info.ModTime(), size: info.Size()}, int64(len(fb.Pix()))*4)
	Logger().Debug("compositor: image loaded", "path", path, "width", buf.Width(), "height", buf.Height())
	return buf, nil
}

// Forget drops every cached image.
func (s *FileImageSource) Forget() {
	s.cache.Purge()
}

// CacheStats returns the counters of the decoded image cache.
func (s *FileImageSource) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// MapImageSource serves in-memory buffers keyed by path.
type MapImageSource map[string]*MemoryBuffer

// Image returns the buffer stored under ref.Path.
func (m MapImageSource) Image(ref ImageRef) (*MemoryBuffer, error) {
	buf, ok := m[ref.Path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, ref.Path)
	}
	return buf, nil
}
