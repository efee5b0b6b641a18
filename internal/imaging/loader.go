package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/image-grid-mcp/internal/cellstats"
)

// CachedImage is a decoded image together with the identity assigned when it
// was loaded.
//
// The ID changes every time the file is decoded again, so it can key derived
// results (such as grid analyses) that must be discarded when the image is
// reloaded.
type CachedImage struct {
	// ID is a random identifier unique to this decode of the file.
	ID string

	// Path is the path the image was loaded from.
	Path string

	// Format is the decoder name reported by image.Decode ("png", "jpeg",
	// "gif", "tiff", "bmp" or "webp").
	Format string

	// Image is the decoded image.
	Image image.Image

	pixelsOnce sync.Once
	pixels     *cellstats.PixelBuffer
}

// Pixels returns the image as a PixelBuffer. The conversion runs once and the
// buffer is shared by every caller.
func (ci *CachedImage) Pixels() *cellstats.PixelBuffer {
	ci.pixelsOnce.Do(func() {
		ci.pixels = ToPixelBuffer(ci.Image)
	})
	return ci.pixels
}

// Width returns the image width in pixels.
func (ci *CachedImage) Width() int { return ci.Image.Bounds().Dx() }

// Height returns the image height in pixels.
func (ci *CachedImage) Height() int { return ci.Image.Bounds().Dy() }

// ImageCache provides thread-safe caching of decoded images to avoid redundant
// disk reads.
//
// The cache stores decoded images keyed by their file path. Once an image is
// loaded, subsequent Load() calls for the same path return the cached copy
// (with the same ID) without disk I/O.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). For long-running processes handling many images, consider periodic
// cleanup to prevent unbounded memory growth.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	ci, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	buf := ci.Pixels()
//	cache.Evict("/path/to/image.png") // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*CachedImage
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*CachedImage),
	}
}

// Load retrieves an image from the cache or decodes it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, GIF, TIFF, BMP and WebP.
//
// Returns:
//   - *CachedImage: The decoded image and its identity.
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The image is cached using the exact path string provided. Different paths to
// the same file (e.g., relative vs absolute) will result in separate cache
// entries with different IDs.
func (c *ImageCache) Load(path string) (*CachedImage, error) {
	c.mu.RLock()
	if ci, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return ci, nil
	}
	c.mu.RUnlock()

	ci, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another goroutine may have loaded the same path meanwhile; keep the
	// first so callers agree on the ID.
	if existing, ok := c.images[path]; ok {
		return existing, nil
	}
	c.images[path] = ci
	return ci, nil
}

// Reload decodes the file again, replacing any cached copy. The returned
// image has a new ID; replacedID is the ID of the copy it displaced, or ""
// if path was not cached. A failed decode leaves the cache untouched.
func (c *ImageCache) Reload(path string) (ci *CachedImage, replacedID string, err error) {
	ci, err = decodeFile(path)
	if err != nil {
		return nil, "", err
	}

	c.mu.Lock()
	if old, ok := c.images[path]; ok {
		replacedID = old.ID
	}
	c.images[path] = ci
	c.mu.Unlock()
	return ci, replacedID, nil
}

// Evict removes a specific image from the cache by its path and returns the ID
// it had. ok is false if the path was not cached.
func (c *ImageCache) Evict(path string) (id string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ci, ok := c.images[path]
	if !ok {
		return "", false
	}
	delete(c.images, path)
	return ci.ID, true
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*CachedImage)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

func decodeFile(path string) (*CachedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &CachedImage{
		ID:     uuid.NewString(),
		Path:   path,
		Format: format,
		Image:  img,
	}, nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// ImageID identifies this decode of the file; it changes on reload.
	ImageID string `json:"image_id"`

	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format, as reported by the decoder.
	Format string `json:"format"`

	// HasAlpha indicates whether the decoded image type carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// MaxGrid is the largest supported row or column count.
	MaxGrid int `json:"max_grid"`
}

// LoadImageInfo loads an image and returns metadata about it.
//
// Parameters:
//   - cache: The image cache to use for loading. Must not be nil.
//   - path: Path to the image file.
//
// Returns:
//   - *ImageInfo: Metadata about the image.
//   - error: Non-nil if the image cannot be loaded or the file cannot be stat'd.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	ci, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	switch ci.Image.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	return &ImageInfo{
		ImageID:       ci.ID,
		Width:         ci.Width(),
		Height:        ci.Height(),
		Format:        ci.Format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
		MaxGrid:       cellstats.MaxGridSize,
	}, nil
}
