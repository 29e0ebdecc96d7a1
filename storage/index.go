package storage

import (
	"errors"

	"openenterprise/tinydash/jsonw"
)

// ErrMalformedIndex is returned by deserializeIndex when the stored blob
// isn't a recognizable array of {"name","size","modified"} objects. It is
// treated the same as config.Deserialize treats a corrupt blob: callers
// fall back to an empty index rather than failing the whole file manager.
var ErrMalformedIndex = errors.New("storage: malformed index")

func serializeIndex(index []Info) []byte {
	var buf [2048]byte
	w := jsonw.NewWriter(buf[:])
	w.ArrayStart()
	for i, f := range index {
		if i > 0 {
			w.Comma()
		}
		w.ObjectStart()
		w.Key("name")
		w.String(f.Name)
		w.Comma()
		w.Key("size")
		w.Uint(uint64(f.Size))
		w.Comma()
		w.Key("modified")
		w.Int(f.Modified)
		w.ObjectEnd()
	}
	w.ArrayEnd()
	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}

// deserializeIndex is a narrow hand-rolled scanner for the flat array of
// flat objects serializeIndex produces, the same style config's
// scanObject uses for its own flat object. Nesting beyond one level is
// never written here, so it is never handled here either.
func deserializeIndex(raw []byte) ([]Info, error) {
	i := skipSpace(raw, 0)
	if i >= len(raw) || raw[i] != '[' {
		return nil, ErrMalformedIndex
	}
	i++

	var out []Info
	for {
		i = skipSpace(raw, i)
		if i >= len(raw) {
			return nil, ErrMalformedIndex
		}
		if raw[i] == ']' {
			return out, nil
		}
		entry, next, err := scanEntry(raw, i)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
		i = skipSpace(raw, next)
		if i >= len(raw) {
			return nil, ErrMalformedIndex
		}
		if raw[i] == ',' {
			i++
			continue
		}
		if raw[i] == ']' {
			return out, nil
		}
		return nil, ErrMalformedIndex
	}
}

func scanEntry(raw []byte, i int) (Info, int, error) {
	i = skipSpace(raw, i)
	if i >= len(raw) || raw[i] != '{' {
		return Info{}, i, ErrMalformedIndex
	}
	i++

	var info Info
	for {
		i = skipSpace(raw, i)
		if i >= len(raw) {
			return Info{}, i, ErrMalformedIndex
		}
		if raw[i] == '}' {
			return info, i + 1, nil
		}
		key, next, err := scanString(raw, i)
		if err != nil {
			return Info{}, i, ErrMalformedIndex
		}
		i = skipSpace(raw, next)
		if i >= len(raw) || raw[i] != ':' {
			return Info{}, i, ErrMalformedIndex
		}
		i = skipSpace(raw, i+1)
		if i >= len(raw) {
			return Info{}, i, ErrMalformedIndex
		}

		switch key {
		case "name":
			s, next, err := scanString(raw, i)
			if err != nil {
				return Info{}, i, err
			}
			info.Name = s
			i = next
		case "size":
			n, next, err := scanUint(raw, i)
			if err != nil {
				return Info{}, i, err
			}
			info.Size = uint32(n)
			i = next
		case "modified":
			neg := false
			if raw[i] == '-' {
				neg = true
				i++
			}
			n, next, err := scanUint(raw, i)
			if err != nil {
				return Info{}, i, err
			}
			if neg {
				info.Modified = -int64(n)
			} else {
				info.Modified = int64(n)
			}
			i = next
		default:
			return Info{}, i, ErrMalformedIndex
		}

		i = skipSpace(raw, i)
		if i >= len(raw) {
			return Info{}, i, ErrMalformedIndex
		}
		if raw[i] == ',' {
			i++
			continue
		}
		if raw[i] == '}' {
			return info, i + 1, nil
		}
		return Info{}, i, ErrMalformedIndex
	}
}

func skipSpace(raw []byte, i int) int {
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t' || raw[i] == '\n' || raw[i] == '\r') {
		i++
	}
	return i
}

func scanString(raw []byte, i int) (string, int, error) {
	if i >= len(raw) || raw[i] != '"' {
		return "", i, ErrMalformedIndex
	}
	i++
	var out []byte
	for i < len(raw) {
		b := raw[i]
		if b == '"' {
			return string(out), i + 1, nil
		}
		if b == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			default:
				return "", i, ErrMalformedIndex
			}
			i += 2
			continue
		}
		out = append(out, b)
		i++
	}
	return "", i, ErrMalformedIndex
}

func scanUint(raw []byte, i int) (uint64, int, error) {
	start := i
	var n uint64
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		n = n*10 + uint64(raw[i]-'0')
		i++
	}
	if i == start {
		return 0, i, ErrMalformedIndex
	}
	return n, i, nil
}
