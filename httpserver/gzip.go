package httpserver

import (
	"bytes"
	"compress/gzip"
)

// gzipThreshold is the body-size cutoff for compression; bodies at or
// under it are sent as-is even when the client advertises gzip support,
// since the framing overhead isn't worth it.
const gzipThreshold = 1024

// clientAcceptsGzip reports whether r's Accept-Encoding header lists
// gzip. No pack example negotiates content encoding; this is a plain
// substring scan since the header is always a short comma-separated list.
func clientAcceptsGzip(r *Request) bool {
	v, ok := r.Get("Accept-Encoding")
	if !ok {
		return false
	}
	return containsSubstring(v, "gzip")
}

func containsSubstring(s, sub string) bool {
	if len(sub) == 0 || len(sub) > len(s) {
		return len(sub) == 0
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// gzipCompress returns body gzip-compressed, or ok=false if compression
// fails for any reason (caller falls back to sending body uncompressed).
func gzipCompress(body []byte) (compressed []byte, ok bool) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return nil, false
	}
	if err := zw.Close(); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}
