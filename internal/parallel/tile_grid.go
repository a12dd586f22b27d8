package parallel

// Grid divides a width x height canvas into tiles.
type Grid struct {
	width, height  int
	tileW, tileH   int
	tilesX, tilesY int
	tiles          []Tile
}

// NewGrid divides the canvas into tiles of tileW x tileH. Non-positive
// canvas sizes produce an empty grid; non-positive tile sizes fall back to
// 64x64.
func NewGrid(width, height, tileW, tileH int) *Grid {
	if tileW <= 0 {
		tileW = TileWidth
	}
	if tileH <= 0 {
		tileH = TileHeight
	}
	g := &Grid{width: max(width, 0), height: max(height, 0), tileW: tileW, tileH: tileH}
	if g.width == 0 || g.height == 0 {
		return g
	}

	g.tilesX = (g.width + tileW - 1) / tileW
	g.tilesY = (g.height + tileH - 1) / tileH
	g.tiles = make([]Tile, 0, g.tilesX*g.tilesY)
	for ty := range g.tilesY {
		for tx := range g.tilesX {
			x, y := tx*tileW, ty*tileH
			g.tiles = append(g.tiles, Tile{
				Index:  len(g.tiles),
				X:      x,
				Y:      y,
				Width:  min(tileW, g.width-x),
				Height: min(tileH, g.height-y),
			})
		}
	}
	return g
}

// Tiles returns all tiles in row-major order. The slice must not be modified.
func (g *Grid) Tiles() []Tile { return g.tiles }

// TileCount returns the number of tiles.
func (g *Grid) TileCount() int { return len(g.tiles) }

// TilesX returns the number of tile columns.
func (g *Grid) TilesX() int { return g.tilesX }

// TilesY returns the number of tile rows.
func (g *Grid) TilesY() int { return g.tilesY }
