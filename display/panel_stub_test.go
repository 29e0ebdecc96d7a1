package display

import "testing"

func TestPanelStubCapturesWrites(t *testing.T) {
	p := NewPanel(PanelPins{})
	p.Configure()
	if p.Degraded() {
		t.Fatal("fresh panel should not be degraded")
	}
	p.SetWindow(0, 0, 3, 0)
	p.WritePixels([]Pixel{White, Black, White, Black})
	if len(p.LastWritten) != 4 {
		t.Fatalf("LastWritten len = %d, want 4", len(p.LastWritten))
	}
	if p.WindowCalls != 1 {
		t.Fatalf("WindowCalls = %d, want 1", p.WindowCalls)
	}
	p.ResetCapture()
	if len(p.LastWritten) != 0 || p.WindowCalls != 0 {
		t.Fatal("ResetCapture did not clear state")
	}
}

func TestPanelStubDegradedIsSettable(t *testing.T) {
	p := NewPanel(PanelPins{})
	p.SetDegraded(true)
	if !p.Degraded() {
		t.Fatal("expected degraded after SetDegraded(true)")
	}
}

func TestPanelStubBacklight(t *testing.T) {
	p := NewPanel(PanelPins{})
	p.SetBacklight(true)
	if !p.Backlight() {
		t.Fatal("expected backlight on")
	}
	p.SetBacklight(false)
	if p.Backlight() {
		t.Fatal("expected backlight off")
	}
}
