//go:build tinygo

package display

/*
#include <stdlib.h>
#include <stdint.h>

// heap_caps_malloc is ESP-IDF's capability-aware allocator; MALLOC_CAP_SPIRAM
// requests external PSRAM specifically so the two framebuffers (around
// 109 KiB each at 320x170x2) don't compete with internal RAM used by the
// network stack and HTTP handlers.
#define MALLOC_CAP_SPIRAM 0x400
#define MALLOC_CAP_8BIT    0x4

extern void *heap_caps_malloc(size_t size, uint32_t caps);

static void *tinydash_psram_alloc(size_t size) {
    return heap_caps_malloc(size, MALLOC_CAP_SPIRAM | MALLOC_CAP_8BIT);
}
*/
import "C"

import "unsafe"

// PSRAMAllocator places pixel buffers in external PSRAM via ESP-IDF's
// capability allocator. It is the only file in this package that performs
// raw pointer work, matching the firmware-wide convention that unsafe
// hardware pokes live in one narrow, clearly marked place.
type PSRAMAllocator struct{}

// Alloc requests n pixels' worth of PSRAM and returns a Go slice backed by
// that memory. ok is false when the platform has no PSRAM or the request
// fails, in which case the caller falls back to a heap-allocated slice.
func (PSRAMAllocator) Alloc(n int) ([]Pixel, bool) {
	size := C.size_t(n) * C.size_t(unsafe.Sizeof(Pixel(0)))
	ptr := C.tinydash_psram_alloc(size)
	if ptr == nil {
		return nil, false
	}
	return unsafe.Slice((*Pixel)(ptr), n), true
}
