package ui

import "openenterprise/tinydash/jsonw"

// scratch backs every format call below; screens render one frame at a
// time from a single goroutine, so a package-level buffer is safe and
// avoids a heap allocation per formatted field.
var scratch [64]byte

func formatInt(n int64, suffix string) string {
	w := jsonw.NewWriter(scratch[:])
	w.Int(n)
	w.Raw(suffix)
	return string(w.Bytes())
}

func formatUint(n uint64, suffix string) string {
	w := jsonw.NewWriter(scratch[:])
	w.Uint(n)
	w.Raw(suffix)
	return string(w.Bytes())
}

func formatFloat1(f float64, suffix string) string {
	w := jsonw.NewWriter(scratch[:])
	w.Float1(f)
	w.Raw(suffix)
	return string(w.Bytes())
}

// formatUptime renders milliseconds as "HH:MM:SS".
func formatUptime(ms int64) string {
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	w := jsonw.NewWriter(scratch[:])
	writePadded2(w, hours)
	w.Raw(":")
	writePadded2(w, minutes)
	w.Raw(":")
	writePadded2(w, seconds)
	return string(w.Bytes())
}

func writePadded2(w *jsonw.Writer, n int64) {
	if n < 10 {
		w.Raw("0")
	}
	w.Int(n)
}
