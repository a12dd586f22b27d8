package parallel

import "testing"

func TestNewGridCoversCanvas(t *testing.T) {
	tests := []struct {
		name           string
		w, h           int
		tileW, tileH   int
		tilesX, tilesY int
	}{
		{"exact", 128, 64, 64, 64, 2, 1},
		{"edge tiles", 100, 70, 64, 64, 2, 2},
		{"small tiles", 50, 50, 16, 16, 4, 4},
		{"single pixel", 1, 1, 64, 64, 1, 1},
		{"empty", 0, 10, 64, 64, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.w, tt.h, tt.tileW, tt.tileH)
			if g.TilesX() != tt.tilesX || g.TilesY() != tt.tilesY {
				t.Fatalf("tiles = %dx%d, want %dx%d", g.TilesX(), g.TilesY(), tt.tilesX, tt.tilesY)
			}
			if g.TileCount() != tt.tilesX*tt.tilesY {
				t.Errorf("TileCount() = %d, want %d", g.TileCount(), tt.tilesX*tt.tilesY)
			}

			hits := make([]int, tt.w*tt.h)
			for i, tile := range g.Tiles() {
				if tile.Index != i {
					t.Errorf("tile %d has Index %d", i, tile.Index)
				}
				x0, y0, x1, y1 := tile.Bounds()
				if x0 < 0 || y0 < 0 || x1 > tt.w || y1 > tt.h {
					t.Errorf("tile %d bounds (%d, %d, %d, %d) leave the %dx%d canvas", i, x0, y0, x1, y1, tt.w, tt.h)
					continue
				}
				for y := y0; y < y1; y++ {
					for x := x0; x < x1; x++ {
						hits[y*tt.w+x]++
					}
				}
			}
			for i, n := range hits {
				if n != 1 {
					t.Fatalf("pixel (%d, %d) covered %d times, want 1", i%tt.w, i/tt.w, n)
				}
			}
		})
	}
}

func TestGridEdgeTileSize(t *testing.T) {
	g := NewGrid(100, 70, 64, 64)
	tile := g.Tiles()[3]
	if tile.X != 64 || tile.Y != 64 || tile.Width != 36 || tile.Height != 6 {
		t.Errorf("edge tile = %+v, want 36x6 at (64, 64)", tile)
	}
	x0, y0, x1, y1 := tile.Bounds()
	if x0 != 64 || y0 != 64 || x1 != 100 || y1 != 70 {
		t.Errorf("Bounds() = (%d, %d, %d, %d)", x0, y0, x1, y1)
	}
}

func TestGridDefaultTileSizeFallback(t *testing.T) {
	g := NewGrid(130, 10, 0, -3)
	if g.TilesX() != 3 || g.TilesY() != 1 {
		t.Errorf("tiles = %dx%d, want 3x1", g.TilesX(), g.TilesY())
	}
}
