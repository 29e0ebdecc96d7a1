package httpserver

import (
	"errors"

	"openenterprise/tinydash/apierr"
	"openenterprise/tinydash/jsonw"
	"openenterprise/tinydash/storage"
)

// FileStore is the narrow surface routes_files.go needs from the
// storage package; main.go wires a *storage.Manager.
type FileStore interface {
	List() ([]storage.Info, error)
	Read(name string) ([]byte, error)
	Write(name string, content []byte) error
	Delete(name string) error
}

// FileRoutes registers the file manager surface: GET /api/files
// (listing), GET /api/files/content (read one), PUT /api/files/content
// (save one), DELETE /api/files (delete one).
func FileRoutes(rt *Router, fs FileStore) {
	rt.Handle("GET", "/api/files", func(w *ResponseWriter, r *Request, c Clock) {
		files, err := fs.List()
		if err != nil {
			WriteError(w, apierr.Error{Code: apierr.CodeInternal, Message: "failed to list files"}, c)
			return
		}
		var buf [2048]byte
		jw := jsonw.NewWriter(buf[:])
		jw.ObjectStart()
		jw.Key("files")
		jw.ArrayStart()
		for i, f := range files {
			if i > 0 {
				jw.Comma()
			}
			jw.ObjectStart()
			jw.Key("name")
			jw.String(f.Name)
			jw.Comma()
			jw.Key("size")
			jw.Uint(uint64(f.Size))
			jw.Comma()
			jw.Key("modified")
			jw.Int(f.Modified)
			jw.ObjectEnd()
		}
		jw.ArrayEnd()
		jw.ObjectEnd()
		w.SetHeader("Content-Type", "application/json")
		w.Write(jw.Bytes())
	})

	rt.Handle("GET", "/api/files/content", func(w *ResponseWriter, r *Request, c Clock) {
		name, ok := r.QueryParam("file")
		if !ok {
			WriteError(w, apierr.Error{Code: apierr.CodeBadRequest, Message: "missing file parameter"}, c)
			return
		}
		content, err := fs.Read(name)
		if err != nil {
			writeFileError(w, err, c)
			return
		}

		var buf [storage.MaxFileSize + 256]byte
		jw := jsonw.NewWriter(buf[:])
		jw.ObjectStart()
		jw.Key("filename")
		jw.String(name)
		jw.Comma()
		jw.Key("content")
		jw.String(string(content))
		jw.Comma()
		jw.Key("size")
		jw.Uint(uint64(len(content)))
		jw.ObjectEnd()
		w.SetHeader("Content-Type", "application/json")
		w.Write(jw.Bytes())
	})

	rt.Handle("PUT", "/api/files/content", func(w *ResponseWriter, r *Request, c Clock) {
		name, ok := r.QueryParam("file")
		if !ok {
			WriteError(w, apierr.Error{Code: apierr.CodeBadRequest, Message: "missing file parameter"}, c)
			return
		}
		content, err := extractContentField(r.Body)
		if err != nil {
			WriteError(w, apierr.Error{Code: apierr.CodeBadRequest, Message: "missing content field"}, c)
			return
		}
		if err := fs.Write(name, content); err != nil {
			writeFileError(w, err, c)
			return
		}

		var buf [256]byte
		jw := jsonw.NewWriter(buf[:])
		jw.ObjectStart()
		jw.Key("status")
		jw.String("saved")
		jw.Comma()
		jw.Key("filename")
		jw.String(name)
		jw.Comma()
		jw.Key("size")
		jw.Uint(uint64(len(content)))
		jw.ObjectEnd()
		w.SetHeader("Content-Type", "application/json")
		w.Write(jw.Bytes())
	})

	rt.Handle("DELETE", "/api/files", func(w *ResponseWriter, r *Request, c Clock) {
		name, ok := r.QueryParam("file")
		if !ok {
			WriteError(w, apierr.Error{Code: apierr.CodeBadRequest, Message: "missing file parameter"}, c)
			return
		}
		if err := fs.Delete(name); err != nil {
			writeFileError(w, err, c)
			return
		}

		var buf [128]byte
		jw := jsonw.NewWriter(buf[:])
		jw.ObjectStart()
		jw.Key("status")
		jw.String("deleted")
		jw.Comma()
		jw.Key("filename")
		jw.String(name)
		jw.ObjectEnd()
		w.SetHeader("Content-Type", "application/json")
		w.Write(jw.Bytes())
	})
}

func writeFileError(w *ResponseWriter, err error, c Clock) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteError(w, apierr.Error{Code: apierr.CodeNotFound, Message: "file not found"}, c)
	case errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, storage.ErrDisallowedExt),
		errors.Is(err, storage.ErrProtected):
		WriteError(w, apierr.Error{Code: apierr.CodeBadRequest, Message: err.Error()}, c)
	case errors.Is(err, storage.ErrTooLarge):
		WriteError(w, apierr.Error{Code: apierr.CodeTooLarge, Message: err.Error()}, c)
	case errors.Is(err, storage.ErrFull):
		WriteError(w, apierr.Error{Code: apierr.CodeUnavailable, Message: err.Error()}, c)
	default:
		WriteError(w, apierr.Error{Code: apierr.CodeInternal, Message: "file operation failed"}, c)
	}
}

// extractContentField pulls the "content" string field out of a
// {"content":"..."} body, the save payload file_manager.rs's PUT handler
// expects. It is a single-field special case of the same hand-rolled
// scanning idiom config/deserialize.go uses for its flat object, not a
// general JSON parser.
func extractContentField(body []byte) ([]byte, error) {
	key := []byte(`"content"`)
	idx := indexOfSlice(body, key)
	if idx < 0 {
		return nil, errMissingContent
	}
	i := idx + len(key)
	for i < len(body) && (body[i] == ' ' || body[i] == '\t' || body[i] == '\n' || body[i] == '\r') {
		i++
	}
	if i >= len(body) || body[i] != ':' {
		return nil, errMissingContent
	}
	i++
	for i < len(body) && (body[i] == ' ' || body[i] == '\t' || body[i] == '\n' || body[i] == '\r') {
		i++
	}
	if i >= len(body) || body[i] != '"' {
		return nil, errMissingContent
	}
	i++
	var out []byte
	for i < len(body) {
		b := body[i]
		if b == '"' {
			return out, nil
		}
		if b == '\\' && i+1 < len(body) {
			switch body[i+1] {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			default:
				return nil, errMissingContent
			}
			i += 2
			continue
		}
		out = append(out, b)
		i++
	}
	return nil, errMissingContent
}

var errMissingContent = errors.New("httpserver: missing content field")

func indexOfSlice(haystack, needle []byte) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
