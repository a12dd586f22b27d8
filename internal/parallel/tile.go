// Package parallel splits a canvas into tiles and evaluates them on a
// work-stealing worker pool.
//
// Tiles are 64x64 pixels by default. A 64x64 tile of float RGBA is 64KB, so
// a worker's inputs for one tile stay resident in L2 while it runs.
//
// Thread safety: Grid is immutable after construction. WorkerPool is safe
// for concurrent use.
package parallel

// Default tile size in pixels.
const (
	// TileWidth is the default width of a tile in pixels.
	TileWidth = 64

	// TileHeight is the default height of a tile in pixels.
	TileHeight = 64
)

// Tile is a rectangular region of the canvas processed as one work item.
// Edge tiles are smaller when the canvas is not a multiple of the tile size.
type Tile struct {
	// Index is the position of the tile in row-major order.
	Index int

	// X and Y are the canvas coordinates of the top-left pixel.
	X, Y int

	// Width and Height are the actual tile dimensions in pixels.
	Width, Height int
}

// Bounds returns the half-open pixel rectangle [x0,x1) x [y0,y1).
func (t Tile) Bounds() (x0, y0, x1, y1 int) {
	return t.X, t.Y, t.X + t.Width, t.Y + t.Height
}
