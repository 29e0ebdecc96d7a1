package httpserver

import (
	"openenterprise/tinydash/apierr"
	"openenterprise/tinydash/jsonw"
	"openenterprise/tinydash/ota"
)

// OTAController is the narrow surface routes_ota.go needs from a live
// upload; main.go owns the actual ota.Writer and wires one of these per
// boot.
type OTAController interface {
	// Begin starts a new session for a firmware of the given size, or
	// returns an error if OTA is currently disabled.
	Begin(size uint32) error
	// Write streams the next chunk of the in-progress upload.
	Write(chunk []byte) error
	// Finish verifies and activates the image; rebootFn is called after a
	// successful response flush.
	Finish(expectedHashHex string) error
	// Status reports the current session, or ota.Idle if none is active.
	Status() (ota.Status, uint8)
	// Enabled reports whether the OTA surface currently accepts uploads.
	Enabled() bool
}

// OTARoutes registers POST /ota/update and GET /api/ota/status.
func OTARoutes(rt *Router, ctrl OTAController, rebootFn func()) {
	rt.Handle("POST", "/ota/update", func(w *ResponseWriter, r *Request, c Clock) {
		if !ctrl.Enabled() {
			WriteError(w, apierr.Error{Code: apierr.CodeUnavailable, Message: "OTA not enabled"}, c)
			return
		}
		size := r.ContentLength()
		if size == 0 {
			WriteError(w, apierr.Error{Code: apierr.CodeBadRequest, Message: "Content-Length required"}, c)
			return
		}
		if err := ctrl.Begin(uint32(size)); err != nil {
			code := apierr.CodeUnavailable
			if err == ota.ErrImageTooLarge {
				code = apierr.CodeBadRequest
			}
			WriteError(w, apierr.Error{Code: code, Message: err.Error()}, c)
			return
		}
		if err := ctrl.Write(r.Body); err != nil {
			WriteError(w, apierr.Error{Code: apierr.CodeInternal, Message: "flash write failed"}, c)
			return
		}
		expectedHash, _ := r.Get("X-Firmware-SHA256")
		if err := ctrl.Finish(expectedHash); err != nil {
			WriteError(w, apierr.Error{Code: apierr.CodeInternal, Message: "image validation failed"}, c)
			return
		}

		w.SetHeader("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
		w.Flush()
		if rebootFn != nil {
			rebootFn()
		}
	})

	rt.Handle("GET", "/api/ota/status", func(w *ResponseWriter, r *Request, c Clock) {
		status, progress := ctrl.Status()
		w.SetHeader("Content-Type", "application/json")
		var buf [128]byte
		jw := jsonw.NewWriter(buf[:])
		jw.ObjectStart()
		jw.Key("status")
		jw.String(status.String())
		if status == ota.Downloading {
			jw.Comma()
			jw.Key("progress")
			jw.Uint(uint64(progress))
		}
		jw.ObjectEnd()
		w.Write(jw.Bytes())
	})
}
