package config

import _ "embed"

// factorySSID/factoryPassword are the compile-time fallback credentials
// used on first boot, before anything has ever been saved to the store,
// or if the stored blob fails to parse. They are a last-resort default,
// not the source of truth.
var (
	//go:embed ssid.text
	factorySSID string

	//go:embed password.text
	factoryPassword string
)
