package httpserver

// Request is a parsed HTTP request line, header block and body, built by
// a manual byte scanner in the same style as console.go's telnet line
// parser — no net/http involved, since TinyGo's net/http does not run
// over a custom netstack.
type Request struct {
	Method string
	Path   string
	Query  string
	Proto  string

	Headers []Header
	Body    []byte

	// PathParam is set by the router for patterns like
	// /api/v1/config/{field}.
	PathParam string
}

// Header is one "Name: Value" line.
type Header struct {
	Name  string
	Value string
}

// Get returns the first header matching name, case-insensitively, and
// whether it was found.
func (r *Request) Get(name string) (string, bool) {
	for _, h := range r.Headers {
		if equalFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// ContentLength parses the Content-Length header, returning 0 if absent
// or malformed.
func (r *Request) ContentLength() int {
	v, ok := r.Get("Content-Length")
	if !ok {
		return 0
	}
	n := 0
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return 0
		}
		n = n*10 + int(v[i]-'0')
	}
	return n
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// ParseRequestLine splits "METHOD PATH[?QUERY] PROTO" into its parts.
// ok is false if the line is not well formed.
func ParseRequestLine(line string) (method, path, query, proto string, ok bool) {
	sp1 := indexByte(line, ' ')
	if sp1 < 0 {
		return
	}
	rest := line[sp1+1:]
	sp2 := indexByte(rest, ' ')
	if sp2 < 0 {
		return
	}
	method = line[:sp1]
	target := rest[:sp2]
	proto = rest[sp2+1:]

	if q := indexByte(target, '?'); q >= 0 {
		path = target[:q]
		query = target[q+1:]
	} else {
		path = target
	}
	ok = true
	return
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// ParseHeaderLine splits "Name: Value" into its parts, trimming
// surrounding whitespace from the value. ok is false if there is no
// colon.
func ParseHeaderLine(line string) (name, value string, ok bool) {
	c := indexByte(line, ':')
	if c < 0 {
		return "", "", false
	}
	name = line[:c]
	value = trimSpace(line[c+1:])
	return name, value, true
}

// QueryParam scans the raw query string for name=value, returning the
// first match. No unescaping is performed: a percent-encoded or
// '+'-encoded value, such as an escaped file name, is returned as sent.
func (r *Request) QueryParam(name string) (string, bool) {
	q := r.Query
	for len(q) > 0 {
		amp := indexByte(q, '&')
		pair := q
		if amp >= 0 {
			pair = q[:amp]
			q = q[amp+1:]
		} else {
			q = ""
		}
		eq := indexByte(pair, '=')
		if eq < 0 {
			continue
		}
		if pair[:eq] == name {
			return pair[eq+1:], true
		}
	}
	return "", false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}
