package display

// Canvas pairs a Framebuffer with the DirtySet that tracks which regions of
// it changed, so every primitive can mark its own bounding box dirty
// without the caller having to remember to.
type Canvas struct {
	FB    *Framebuffer
	Dirty *DirtySet
}

// NewCanvas binds fb and dirty. Either may be reused across many Canvas
// values; Canvas itself holds no state of its own.
func NewCanvas(fb *Framebuffer, dirty *DirtySet) *Canvas {
	return &Canvas{FB: fb, Dirty: dirty}
}

func (c *Canvas) markDirty(x, y, w, h int) {
	if c.Dirty != nil {
		c.Dirty.Add(x, y, w, h)
	}
}

// FillRect fills a rectangle and marks it dirty.
func (c *Canvas) FillRect(x, y, w, h int, color Pixel) {
	c.FB.FillRect(x, y, w, h, color)
	c.markDirty(x, y, w, h)
}

// Line draws a straight line between two points using integer Bresenham,
// avoiding floating point.
func (c *Canvas) Line(x0, y0, x1, y1 int, color Pixel) {
	bx0, by0, bx1, by1 := x0, y0, x1, y1

	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		c.FB.SetPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}

	minX, maxX := bx0, bx1
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := by0, by1
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	c.markDirty(minX, minY, maxX-minX+1, maxY-minY+1)
}

// CircleOutline draws a circle of radius r centered at (cx,cy) using the
// midpoint-circle algorithm.
func (c *Canvas) CircleOutline(cx, cy, r int, color Pixel) {
	if r <= 0 {
		c.FB.SetPixel(cx, cy, color)
		c.markDirty(cx, cy, 1, 1)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.plotOctants(cx, cy, x, y, color)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
	c.markDirty(cx-r, cy-r, 2*r+1, 2*r+1)
}

// FillCircle fills a circle of radius r using horizontal spans, one per
// scanline, so a solid circle costs one row-write per row rather than one
// write per pixel.
func (c *Canvas) FillCircle(cx, cy, r int, color Pixel) {
	if r <= 0 {
		c.FB.SetPixel(cx, cy, color)
		c.markDirty(cx, cy, 1, 1)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.FB.FillRect(cx-x, cy+y, 2*x+1, 1, color)
		c.FB.FillRect(cx-x, cy-y, 2*x+1, 1, color)
		c.FB.FillRect(cx-y, cy+x, 2*y+1, 1, color)
		c.FB.FillRect(cx-y, cy-x, 2*y+1, 1, color)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
	c.markDirty(cx-r, cy-r, 2*r+1, 2*r+1)
}

func (c *Canvas) plotOctants(cx, cy, x, y int, color Pixel) {
	c.FB.SetPixel(cx+x, cy+y, color)
	c.FB.SetPixel(cx-x, cy+y, color)
	c.FB.SetPixel(cx+x, cy-y, color)
	c.FB.SetPixel(cx-x, cy-y, color)
	c.FB.SetPixel(cx+y, cy+x, color)
	c.FB.SetPixel(cx-y, cy+x, color)
	c.FB.SetPixel(cx+y, cy-x, color)
	c.FB.SetPixel(cx-y, cy-x, color)
}

// Text draws s starting at (x,y) using the 5x7 bitmap font at the given
// integer scale. Unknown glyphs draw as blank cells; a glyph cell is
// (5*scale+scale) pixels wide to leave one scaled column of spacing. A
// string with no known glyph in it marks nothing dirty.
func (c *Canvas) Text(x, y int, s string, color Pixel, scale int) {
	if scale < 1 {
		scale = 1
	}
	cellW := (glyphWidth + 1) * scale
	startX, startY := x, y
	cursor := x
	drew := false
	for _, r := range s {
		glyph, ok := fontGlyphs[r]
		if !ok {
			cursor += cellW
			continue
		}
		drew = true
		for col := 0; col < glyphWidth; col++ {
			bits := glyph[col]
			for row := 0; row < glyphHeight; row++ {
				if bits&(1<<uint(row)) == 0 {
					continue
				}
				c.FB.FillRect(cursor+col*scale, y+row*scale, scale, scale, color)
			}
		}
		cursor += cellW
	}
	width := cursor - startX
	if width > 0 && drew {
		c.markDirty(startX, startY, width, glyphHeight*scale)
	}
}

// TextWidth returns the pixel width Text would occupy for s at scale,
// including the trailing glyph's spacing column, so callers can erase a
// previously drawn string without redrawing the whole screen.
func TextWidth(s string, scale int) int {
	if scale < 1 {
		scale = 1
	}
	return len([]rune(s)) * (glyphWidth + 1) * scale
}

// TextHeight returns the pixel height of one line of text at scale.
func TextHeight(scale int) int {
	if scale < 1 {
		scale = 1
	}
	return glyphHeight * scale
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
