// Package grid provides line geometry over flat row-major boards,
// shared by the four-in-a-row win scan and the sequence five-in-a-row
// scan.
package grid

// Index maps (row, col) to the flat row-major offset for a board of the
// given width.
func Index(width, row, col int) int { return row*width + col }

// Lines returns every run of k consecutive cells on a width×height
// board, in all four directions: horizontal, vertical, down-right
// diagonal and down-left diagonal. Each run is a slice of flat indices.
func Lines(width, height, k int) [][]int {
	var lines [][]int
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			for _, d := range dirs {
				endRow := row + (k-1)*d[0]
				endCol := col + (k-1)*d[1]
				if endRow < 0 || endRow >= height || endCol < 0 || endCol >= width {
					continue
				}
				line := make([]int, k)
				for i := 0; i < k; i++ {
					line[i] = Index(width, row+i*d[0], col+i*d[1])
				}
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// CenterDistance returns the Chebyshev distance from a flat index to the
// board center, used by positional heuristics.
func CenterDistance(width, height, idx int) int {
	row, col := idx/width, idx%width
	dr := row*2 - (height - 1)
	dc := col*2 - (width - 1)
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	// distances are doubled to stay integral for even-sized boards
	if dr > dc {
		return dr
	}
	return dc
}
