//go:build tinygo

// Package ota implements over-the-air firmware updates against ESP-IDF's
// OTA partition API: a thin cgo shim wrapping a handful of esp_ota_*
// platform calls, the same shape display/psram.go's narrower
// heap_caps_malloc shim uses.
package ota

/*
#include <stdint.h>
#include <stddef.h>

typedef int32_t esp_err_t;
typedef uint32_t esp_ota_handle_t;
typedef const void *esp_partition_t_ptr;

extern esp_partition_t_ptr esp_ota_get_next_update_partition(esp_partition_t_ptr start_from);
extern esp_partition_t_ptr esp_ota_get_running_partition(void);
extern esp_err_t esp_ota_begin(esp_partition_t_ptr partition, size_t image_size, esp_ota_handle_t *out_handle);
extern esp_err_t esp_ota_write(esp_ota_handle_t handle, const void *data, size_t size);
extern esp_err_t esp_ota_end(esp_ota_handle_t handle);
extern esp_err_t esp_ota_set_boot_partition(esp_partition_t_ptr partition);
extern void esp_restart(void);

static esp_err_t tinydash_ota_write(esp_ota_handle_t handle, const void *data, size_t size) {
    return esp_ota_write(handle, data, size);
}
*/
import "C"

import (
	"crypto/sha256"
	"unsafe"
)

// Writer drives a single OTA session against the next update partition.
// State transitions follow Idle -> Downloading -> Verifying -> Ready (or
// Failed from any of the in-progress states).
type Writer struct {
	session   *Session
	handle    C.esp_ota_handle_t
	partition C.esp_partition_t_ptr
	hasher    interface {
		Write([]byte) (int, error)
		Sum([]byte) []byte
	}
}

// NewWriter begins a session targeting the next OTA partition and
// expecting a total of imageSize bytes.
func NewWriter(imageSize uint32) (*Writer, error) {
	if imageSize == 0 || imageSize > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	partition := C.esp_ota_get_next_update_partition(nil)
	var handle C.esp_ota_handle_t
	if C.esp_ota_begin(partition, C.size_t(imageSize), &handle) != 0 {
		return nil, ErrBeginFailed
	}
	return &Writer{
		session:   NewSession(imageSize),
		handle:    handle,
		partition: partition,
		hasher:    sha256.New(),
	}, nil
}

// Session returns the writer's progress/state tracker.
func (w *Writer) Session() *Session { return w.session }

// WriteChunk writes one chunk to flash and advances progress.
func (w *Writer) WriteChunk(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if C.tinydash_ota_write(w.handle, unsafe.Pointer(&data[0]), C.size_t(len(data))) != 0 {
		w.session.Fail()
		return ErrWriteFailed
	}
	w.hasher.Write(data)
	w.session.AddBytes(uint32(len(data)))
	return nil
}

// Finish verifies the received image against expectedHashHex (SHA-256,
// lowercase hex) and, on success, marks the partition bootable.
// expectedHashHex == "" skips verification.
func (w *Writer) Finish(expectedHashHex string) error {
	w.session.Verify()

	if C.esp_ota_end(w.handle) != 0 {
		w.session.Fail()
		return ErrWriteFailed
	}

	if expectedHashHex != "" {
		actual := hexEncode(w.hasher.Sum(nil))
		if actual != expectedHashHex {
			w.session.Fail()
			return ErrValidateFailed
		}
	}

	if C.esp_ota_set_boot_partition(w.partition) != 0 {
		w.session.Fail()
		return ErrSetBootFailed
	}
	w.session.Ready()
	return nil
}

// Reboot restarts into the newly activated partition. It does not return
// on success. Calls the registered Wi-Fi shutdown hook first, if any,
// so the radio powers down cleanly before the restart call.
func Reboot() {
	if wifiShutdownFunc != nil {
		wifiShutdownFunc()
	}
	C.esp_restart()
}

func hexEncode(b []byte) string {
	const hex = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hex[v>>4]
		out[i*2+1] = hex[v&0xf]
	}
	return string(out)
}
