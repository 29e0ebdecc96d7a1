package display

// NMax is the maximum number of rectangles a DirtySet holds before
// collapsing to a single bounding box.
const NMax = 16

// adjacency is the pixel gap within which two rectangles on the same
// row/column range are still considered mergeable. Larger values produce
// fewer, bigger flushes at the cost of repainting unchanged pixels; smaller
// values do more, tighter flushes. 8px balances pixel-bus throughput
// against redundant repaint on the reference panel.
const adjacency = 8

// Rect is an axis-aligned region of the framebuffer, in pixel coordinates.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) x1() int { return r.X + r.W }
func (r Rect) y1() int { return r.Y + r.H }

func (r Rect) area() int { return r.W * r.H }

// overlaps reports whether r and o share any pixels.
func (r Rect) overlaps(o Rect) bool {
	return r.X < o.x1() && o.X < r.x1() && r.Y < o.y1() && o.Y < r.y1()
}

// mergeable implements the merge predicate from the dirty-rect spec:
// rectangles overlap, or they share a row-range and their columns touch or
// are within the adjacency threshold, or the symmetric case for columns.
func (r Rect) mergeable(o Rect) bool {
	if r.overlaps(o) {
		return true
	}
	sameRows := r.Y < o.y1() && o.Y < r.y1()
	if sameRows {
		gap := 0
		if o.X >= r.x1() {
			gap = o.X - r.x1()
		} else if r.X >= o.x1() {
			gap = r.X - o.x1()
		}
		if gap <= adjacency {
			return true
		}
	}
	sameCols := r.X < o.x1() && o.X < r.x1()
	if sameCols {
		gap := 0
		if o.Y >= r.y1() {
			gap = o.Y - r.y1()
		} else if r.Y >= o.y1() {
			gap = r.Y - o.y1()
		}
		if gap <= adjacency {
			return true
		}
	}
	return false
}

// union returns the bounding box of r and o.
func (r Rect) union(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.x1(), o.x1()), max(r.y1(), o.y1())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// DirtySet holds at most NMax non-mergeable rectangles describing the
// framebuffer regions changed since the last Clear.
type DirtySet struct {
	rects [NMax]Rect
	n     int
}

// Add inserts (x,y,w,h). A zero-width or zero-height rectangle is a no-op.
// A rectangle mergeable with an existing member replaces that member with
// their bounding box; the set is then swept to a fixed point so any pair
// that becomes mergeable as a result is also merged. If the rectangle
// merges with nothing and the set is full, every member is first collapsed
// into one bounding box before the new rectangle is added.
func (d *DirtySet) Add(x, y, w, h int) {
	r := Rect{X: x, Y: y, W: w, H: h}
	if r.empty() {
		return
	}

	for i := 0; i < d.n; i++ {
		if d.rects[i].mergeable(r) {
			d.rects[i] = d.rects[i].union(r)
			d.coalesce()
			return
		}
	}

	if d.n >= NMax {
		d.MergeAll()
	}
	d.rects[d.n] = r
	d.n++
	d.coalesce()
}

// coalesce repeatedly merges any mergeable pair until no more merges apply.
func (d *DirtySet) coalesce() {
	for {
		merged := false
		for i := 0; i < d.n; i++ {
			for j := i + 1; j < d.n; j++ {
				if d.rects[i].mergeable(d.rects[j]) {
					d.rects[i] = d.rects[i].union(d.rects[j])
					d.rects[j] = d.rects[d.n-1]
					d.n--
					merged = true
					break
				}
			}
			if merged {
				break
			}
		}
		if !merged {
			return
		}
	}
}

// Len returns the number of members currently in the set.
func (d *DirtySet) Len() int { return d.n }

// Iter calls fn for each member rectangle, in no particular order.
func (d *DirtySet) Iter(fn func(Rect)) {
	for i := 0; i < d.n; i++ {
		fn(d.rects[i])
	}
}

// Rects returns a copy of the current members.
func (d *DirtySet) Rects() []Rect {
	out := make([]Rect, d.n)
	copy(out, d.rects[:d.n])
	return out
}

// Clear empties the set.
func (d *DirtySet) Clear() {
	d.n = 0
}

// TotalArea returns the sum of each member's w*h. Overlapping members (none
// should exist post-merge, but defensive) would double-count their overlap;
// in practice this is the flush cost estimate used for pacing decisions.
func (d *DirtySet) TotalArea() int {
	total := 0
	for i := 0; i < d.n; i++ {
		total += d.rects[i].area()
	}
	return total
}

// MergeAll collapses the set to a single rectangle equal to the bounding
// box of all current members. A no-op on an empty set.
func (d *DirtySet) MergeAll() {
	if d.n == 0 {
		return
	}
	box := d.rects[0]
	for i := 1; i < d.n; i++ {
		box = box.union(d.rects[i])
	}
	d.rects[0] = box
	d.n = 1
}
