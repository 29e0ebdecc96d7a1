package ui

import (
	"testing"

	"openenterprise/tinydash/display"
)

func TestDynamicLineSkipsRedundantRedraw(t *testing.T) {
	fb := display.New(nil, nil)
	fb.Clear(Dark.Background)
	c := display.NewCanvas(fb, &display.DirtySet{})
	d := newDynamicLine(0, 0, 1)

	d.draw(c, Dark, "A", false)
	before := append([]display.Pixel(nil), fb.GetDrawBuffer()...)
	d.draw(c, Dark, "A", false)
	after := fb.GetDrawBuffer()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("redrawing identical text should not touch the buffer")
		}
	}
}

func TestDynamicLineErasesPreviousOnChange(t *testing.T) {
	fb := display.New(nil, nil)
	fb.Clear(Dark.Background)
	c := display.NewCanvas(fb, &display.DirtySet{})
	d := newDynamicLine(0, 0, 1)

	d.draw(c, Dark, "WWWWW", false)
	d.draw(c, Dark, "A", false)

	buf := fb.GetDrawBuffer()
	oldWidth := display.TextWidth("WWWWW", 1)
	newWidth := display.TextWidth("A", 1)
	clearedFound := false
	for x := newWidth; x < oldWidth; x++ {
		if buf[x] == Dark.Background {
			clearedFound = true
		}
	}
	if !clearedFound {
		t.Fatal("expected the trailing portion of the old text to be erased")
	}
}
