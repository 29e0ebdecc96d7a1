package jsonw

import "testing"

func TestWriterObject(t *testing.T) {
	var buf [256]byte
	w := NewWriter(buf[:])
	w.ObjectStart()
	w.Key("name")
	w.String("tinydash")
	w.Comma()
	w.Key("count")
	w.Int(-42)
	w.Comma()
	w.Key("ok")
	w.Bool(true)
	w.ObjectEnd()

	got := string(w.Bytes())
	want := `{"name":"tinydash","count":-42,"ok":true}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterStringEscaping(t *testing.T) {
	var buf [64]byte
	w := NewWriter(buf[:])
	w.String("a\"b\\c\nd")
	got := string(w.Bytes())
	want := `"a\"b\\c\nd"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterTruncatesSilently(t *testing.T) {
	var buf [4]byte
	w := NewWriter(buf[:])
	w.String("this is way too long")
	if w.Len() > len(buf) {
		t.Fatalf("writer exceeded buffer: len=%d", w.Len())
	}
}

func TestWriterFloat1(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1.25, "1.3"},
		{-2.04, "-2.0"},
		{99.95, "100.0"},
	}
	for _, c := range cases {
		var buf [32]byte
		w := NewWriter(buf[:])
		w.Float1(c.in)
		if got := string(w.Bytes()); got != c.want {
			t.Errorf("Float1(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWriterUint(t *testing.T) {
	var buf [32]byte
	w := NewWriter(buf[:])
	w.Uint(0)
	if got := string(w.Bytes()); got != "0" {
		t.Fatalf("Uint(0) = %q", got)
	}
}
