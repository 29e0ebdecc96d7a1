// Package storage implements the small persistent file area behind the
// /api/files surface: list/read/write/delete over a size-capped set of
// config-like text/binary files. It is backed by the same key-value Store
// interface config.Load/Save use, namespaced separately so the file
// index and file manager's blobs never collide with the dashboard's own
// configuration record.
//
// It is not a filesystem. There is no directory tree: every file is a
// flat key under the "files" namespace, and a single index blob tracks
// which keys exist, narrowed because NVS blobs, unlike a SPIFFS
// partition, are not sized for hundreds of kilobytes.
package storage

import (
	"errors"

	"openenterprise/tinydash/config"
)

const (
	namespace = "files"
	indexKey  = "__index__"

	// MaxFileSize bounds a single stored file. file_manager.rs caps
	// uploads at 256KiB against a SPIFFS partition; NVS blobs are far
	// smaller, so this cap is reduced to fit a handful of config-sized
	// text files rather than firmware images or photos.
	MaxFileSize = 8192

	// MaxFiles bounds the index so List never has to deal with an
	// unbounded scan and the index blob itself stays well under NVS's
	// per-blob limit.
	MaxFiles = 32

	// MaxNameLength matches validate_filename's 128 character cap.
	MaxNameLength = 128
)

var (
	ErrNotFound      = errors.New("storage: file not found")
	ErrInvalidName   = errors.New("storage: invalid filename")
	ErrTooLarge      = errors.New("storage: file too large")
	ErrDisallowedExt = errors.New("storage: file type not allowed")
	ErrProtected     = errors.New("storage: cannot modify protected file")
	ErrFull          = errors.New("storage: file index is full")
)

// allowedExtensions matches file_manager.rs's ALLOWED_EXTENSIONS list.
var allowedExtensions = []string{"json", "toml", "log", "bin", "txt", "md"}

// protectedFiles mirrors file_manager.rs's critical_files list: these
// names can be read but never deleted or overwritten through this
// surface.
var protectedFiles = []string{"config.json", "wifi_config.json"}

// Info describes one stored file, the shape List returns per entry.
type Info struct {
	Name     string
	Size     uint32
	Modified int64
}

// Manager is the file manager's storage backend. Clock lets tests
// control Modified timestamps; main.go wires time.Now().Unix.
type Manager struct {
	store config.Store
	clock func() int64
}

// NewManager wraps store for the file manager surface. clock must be
// non-nil; main.go passes time.Now().Unix, tests pass a fake.
func NewManager(store config.Store, clock func() int64) *Manager {
	return &Manager{store: store, clock: clock}
}

// List returns the current file index, oldest-indexed first.
func (m *Manager) List() ([]Info, error) {
	raw, err := m.store.Get(namespace, indexKey)
	if err != nil {
		return nil, nil
	}
	index, err := deserializeIndex(raw)
	if err != nil {
		// A corrupt or truncated index blob degrades to "no files known"
		// rather than failing every file manager request; Write/Delete
		// rebuild the index on their next successful call.
		return nil, nil
	}
	return index, nil
}

// Read returns the stored content of name. The index, not the raw
// content blob, is the source of truth for existence: Store has no
// delete primitive, so Delete tombstones the content key with an empty
// blob and drops the index entry instead.
func (m *Manager) Read(name string) ([]byte, error) {
	if err := validateFilename(name); err != nil {
		return nil, err
	}
	index, err := m.List()
	if err != nil {
		return nil, err
	}
	if !indexContains(index, name) {
		return nil, ErrNotFound
	}
	data, err := m.store.Get(namespace, "f:"+name)
	if err != nil {
		return nil, ErrNotFound
	}
	return data, nil
}

// Write stores content under name, creating or overwriting the index
// entry. Protected files (config.json, wifi_config.json) cannot be
// written through this surface; they are managed by the config package.
func (m *Manager) Write(name string, content []byte) error {
	if err := validateFilename(name); err != nil {
		return err
	}
	if isProtected(name) {
		return ErrProtected
	}
	if !hasAllowedExtension(name) {
		return ErrDisallowedExt
	}
	if len(content) > MaxFileSize {
		return ErrTooLarge
	}

	index, err := m.List()
	if err != nil {
		return err
	}
	now := m.clock()
	index, existed := upsertIndex(index, Info{Name: name, Size: uint32(len(content)), Modified: now})
	if !existed && len(index) > MaxFiles {
		return ErrFull
	}

	if err := m.store.Set(namespace, "f:"+name, content); err != nil {
		return err
	}
	return m.store.Set(namespace, indexKey, serializeIndex(index))
}

// Delete removes name from storage and the index.
func (m *Manager) Delete(name string) error {
	if err := validateFilename(name); err != nil {
		return err
	}
	if isProtected(name) {
		return ErrProtected
	}

	index, err := m.List()
	if err != nil {
		return err
	}
	next, found := removeFromIndex(index, name)
	if !found {
		return ErrNotFound
	}
	if err := m.store.Set(namespace, indexKey, serializeIndex(next)); err != nil {
		return err
	}
	return m.store.Set(namespace, "f:"+name, nil)
}

func isProtected(name string) bool {
	for _, p := range protectedFiles {
		if p == name {
			return true
		}
	}
	return false
}

func hasAllowedExtension(name string) bool {
	ext := extensionOf(name)
	for _, a := range allowedExtensions {
		if a == ext {
			return true
		}
	}
	return false
}

func extensionOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
		if name[i] == '/' {
			break
		}
	}
	return ""
}

// validateFilename ports file_manager.rs's validators::validate_filename:
// no empty names, no "..", no path separators or NUL, and a length cap.
func validateFilename(name string) error {
	if len(name) == 0 {
		return ErrInvalidName
	}
	if len(name) > MaxNameLength {
		return ErrInvalidName
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '/' || c == '\\' || c == 0 {
			return ErrInvalidName
		}
		if c == '.' && i+1 < len(name) && name[i+1] == '.' {
			return ErrInvalidName
		}
	}
	return nil
}

func upsertIndex(index []Info, entry Info) ([]Info, bool) {
	for i, f := range index {
		if f.Name == entry.Name {
			index[i] = entry
			return index, true
		}
	}
	return append(index, entry), false
}

func indexContains(index []Info, name string) bool {
	for _, f := range index {
		if f.Name == name {
			return true
		}
	}
	return false
}

func removeFromIndex(index []Info, name string) ([]Info, bool) {
	for i, f := range index {
		if f.Name == name {
			return append(index[:i], index[i+1:]...), true
		}
	}
	return index, false
}
