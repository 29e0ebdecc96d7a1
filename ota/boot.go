//go:build tinygo

package ota

/*
#include <stdint.h>
#include <stddef.h>
#include <string.h>

typedef int32_t esp_err_t;
typedef const void *esp_partition_t_ptr;

extern esp_partition_t_ptr esp_ota_get_running_partition(void);
extern esp_err_t esp_ota_mark_app_valid_cancel_rollback(void);

// ESP-IDF's esp_partition_t lays out {type, subtype, address, size, label,
// encrypted}; subtype for an OTA slot is ESP_PARTITION_SUBTYPE_OTA_FLAG
// (0x10) OR'd with the slot index, per esp_partition.h's
// ESP_PARTITION_SUBTYPE_OTA(n) macro. Reading that one byte out of the
// struct is how a currently-running OTA slot gets identified.
static int tinydash_ota_current_slot(esp_partition_t_ptr p) {
    if (!p) return 0;
    const uint8_t *bytes = (const uint8_t *)p;
    uint8_t subtype = bytes[1];
    return subtype & 0x0f;
}
*/
import "C"

// Partition identifies which OTA slot the firmware is running from or
// targeting: "the other one" is always the OTA update target.
type Partition uint8

const (
	PartitionA Partition = iota
	PartitionB
)

// ConfirmPartitionWithCode marks the currently booted app valid and
// cancels any pending rollback, returning the raw esp_err_t. This is
// This is the "try before you buy" confirm: it must run during the app
// rollback window after boot or the bootloader reverts to the previous
// partition on the next reset. Safe to call even when app rollback
// isn't enabled in the running build.
func ConfirmPartitionWithCode() int {
	return int(C.esp_ota_mark_app_valid_cancel_rollback())
}

// ConfirmPartition is ConfirmPartitionWithCode with a plain error
// return, for callers that don't need the raw code.
func ConfirmPartition() error {
	if ConfirmPartitionWithCode() != 0 {
		return ErrConfirmFailed
	}
	return nil
}

// GetCurrentPartition reports which OTA slot this boot is running from.
func GetCurrentPartition() Partition {
	running := C.esp_ota_get_running_partition()
	if C.tinydash_ota_current_slot(running) == 0 {
		return PartitionA
	}
	return PartitionB
}

// GetTargetPartition returns the inactive slot, the one a new OTA
// session writes into.
func GetTargetPartition() Partition {
	if GetCurrentPartition() == PartitionA {
		return PartitionB
	}
	return PartitionA
}

// wifiShutdownFunc is invoked before a reboot so the Wi-Fi stack can shut
// down cleanly first.
var wifiShutdownFunc func()

// SetWiFiShutdown registers the function Reboot calls before restarting.
func SetWiFiShutdown(fn func()) {
	wifiShutdownFunc = fn
}
