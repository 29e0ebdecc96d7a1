//go:build tinygo

package config

/*
#include <stdint.h>
#include <stddef.h>
#include <stdlib.h>
#include <string.h>

// ESP-IDF's NVS (non-volatile storage) API, declared here rather than
// pulled in via a full esp-idf header set, the same narrow extern-only
// style display/psram.go uses for heap_caps_malloc.
typedef int32_t esp_err_t;
typedef uint32_t nvs_handle_t;

#define NVS_READWRITE 1

extern esp_err_t nvs_open(const char *name, int mode, nvs_handle_t *out_handle);
extern esp_err_t nvs_get_blob(nvs_handle_t handle, const char *key, void *out_value, size_t *length);
extern esp_err_t nvs_set_blob(nvs_handle_t handle, const char *key, const void *value, size_t length);
extern esp_err_t nvs_commit(nvs_handle_t handle);
extern void nvs_close(nvs_handle_t handle);

static esp_err_t tinydash_nvs_get(const char *ns, const char *key, void *buf, size_t *len) {
    nvs_handle_t h;
    esp_err_t err = nvs_open(ns, 0, &h);
    if (err != 0) {
        return err;
    }
    err = nvs_get_blob(h, key, buf, len);
    nvs_close(h);
    return err;
}

static esp_err_t tinydash_nvs_set(const char *ns, const char *key, const void *buf, size_t len) {
    nvs_handle_t h;
    esp_err_t err = nvs_open(ns, NVS_READWRITE, &h);
    if (err != 0) {
        return err;
    }
    err = nvs_set_blob(h, key, buf, len);
    if (err == 0) {
        err = nvs_commit(h);
    }
    nvs_close(h);
    return err;
}
*/
import "C"

import "unsafe"

// maxBlobSize bounds a single NVS blob read; config blobs are well under
// this, and the fixed buffer avoids a heap allocation on every boot.
const maxBlobSize = 1024

// NVSStore implements Store over ESP-IDF's NVS flash key-value API.
type NVSStore struct{}

// Get reads the blob stored under namespace/key.
func (NVSStore) Get(namespace, key string) ([]byte, error) {
	cns := C.CString(namespace)
	defer C.free(unsafe.Pointer(cns))
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	var buf [maxBlobSize]byte
	length := C.size_t(len(buf))
	err := C.tinydash_nvs_get(cns, ckey, unsafe.Pointer(&buf[0]), &length)
	if err != 0 {
		return nil, ErrNotFound
	}
	out := make([]byte, int(length))
	copy(out, buf[:length])
	return out, nil
}

// Set writes value under namespace/key, overwriting any prior blob.
func (NVSStore) Set(namespace, key string, value []byte) error {
	cns := C.CString(namespace)
	defer C.free(unsafe.Pointer(cns))
	ckey := C.CString(key)
	defer C.free(unsafe.Pointer(ckey))

	var ptr unsafe.Pointer
	if len(value) > 0 {
		ptr = unsafe.Pointer(&value[0])
	}
	if C.tinydash_nvs_set(cns, ckey, ptr, C.size_t(len(value))) != 0 {
		return ErrNotFound
	}
	return nil
}
