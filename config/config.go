// Package config holds the single typed configuration record, persisted
// as one JSON blob under namespace "dashboard", key "config" in the
// platform's key-value flash store. Load falls back to compile-time
// defaults and logs a warning on any read or parse failure; there is no
// multi-version migration, just pure functions with a sentinel error on
// bad parse, backed by store.Get/Set.
package config

import (
	"errors"
	"log/slog"

	"openenterprise/tinydash/jsonw"
)

const (
	namespace = "dashboard"
	key       = "config"
)

// Theme enumerates the two UI themes the ui package knows about.
type Theme uint8

const (
	ThemeDark Theme = iota
	ThemeLight
)

func (t Theme) String() string {
	if t == ThemeLight {
		return "light"
	}
	return "dark"
}

// ParseTheme is Serialize's inverse for the theme field.
func ParseTheme(s string) Theme {
	if s == "light" {
		return ThemeLight
	}
	return ThemeDark
}

// Config is the one persisted record. Wi-Fi credentials are folded in
// here: SSID/Password round-trip through the store instead of being
// compile-time embeds, with an embedded factory default used only on
// first boot or parse failure (see Defaults, defaults.go).
type Config struct {
	SSID     string
	Password string

	Brightness      uint8 // 0-255
	AutoBrightness  bool
	DimTimeoutSec   uint16
	SleepTimeoutSec uint16
	Theme           Theme
	AnimationsOn    bool
	OTAEnabled      bool
	OTACheckHours   uint16

	// MQTT telemetry export, alongside the HTTP/OTLP path telemetry.go
	// already speaks; see telemetry/mqtt.go.
	MQTTEnabled bool
	MQTTBroker  string // host:port
	MQTTTopic   string
}

// Defaults is returned by Load whenever the store is empty or corrupt.
func Defaults() Config {
	return Config{
		SSID:            factorySSID,
		Password:        factoryPassword,
		Brightness:      100,
		AutoBrightness:  true,
		DimTimeoutSec:   15,
		SleepTimeoutSec: 300,
		Theme:           ThemeDark,
		AnimationsOn:    true,
		OTAEnabled:      true,
		OTACheckHours:   24,
		MQTTEnabled:     false,
		MQTTBroker:      "",
		MQTTTopic:       "tinydash/telemetry",
	}
}

// ErrNotFound is returned by a Store when no blob is present under the
// namespace/key.
var ErrNotFound = errors.New("config: not found")

// Store is the minimal key-value surface Load/Save need; store.go
// (tinygo) and store_stub.go (!tinygo) each provide one.
type Store interface {
	Get(namespace, key string) ([]byte, error)
	Set(namespace, key string, value []byte) error
}

// Load reads and deserializes the config blob, falling back to Defaults
// and logging a warning on any failure. logger may be nil.
func Load(s Store, logger *slog.Logger) Config {
	raw, err := s.Get(namespace, key)
	if err != nil {
		if logger != nil {
			logger.Warn("config:load-fallback", slog.String("err", err.Error()))
		}
		return Defaults()
	}
	cfg, err := Deserialize(raw)
	if err != nil {
		if logger != nil {
			logger.Warn("config:parse-fallback", slog.String("err", err.Error()))
		}
		return Defaults()
	}
	return cfg
}

// Save serializes cfg and overwrites the stored blob.
func Save(s Store, cfg Config) error {
	return s.Set(namespace, key, Serialize(cfg))
}

// Serialize writes cfg as a JSON object using the firmware-wide
// zero-allocation jsonw writer, the same one the ui and httpserver
// packages use, so this package carries no new JSON dependency.
func Serialize(cfg Config) []byte {
	var buf [512]byte
	w := jsonw.NewWriter(buf[:])
	w.ObjectStart()
	w.Key("ssid")
	w.String(cfg.SSID)
	w.Comma()
	w.Key("password")
	w.String(cfg.Password)
	w.Comma()
	w.Key("brightness")
	w.Uint(uint64(cfg.Brightness))
	w.Comma()
	w.Key("auto_brightness")
	w.Bool(cfg.AutoBrightness)
	w.Comma()
	w.Key("dim_timeout_sec")
	w.Uint(uint64(cfg.DimTimeoutSec))
	w.Comma()
	w.Key("sleep_timeout_sec")
	w.Uint(uint64(cfg.SleepTimeoutSec))
	w.Comma()
	w.Key("theme")
	w.String(cfg.Theme.String())
	w.Comma()
	w.Key("animations_on")
	w.Bool(cfg.AnimationsOn)
	w.Comma()
	w.Key("ota_enabled")
	w.Bool(cfg.OTAEnabled)
	w.Comma()
	w.Key("ota_check_hours")
	w.Uint(uint64(cfg.OTACheckHours))
	w.Comma()
	w.Key("mqtt_enabled")
	w.Bool(cfg.MQTTEnabled)
	w.Comma()
	w.Key("mqtt_broker")
	w.String(cfg.MQTTBroker)
	w.Comma()
	w.Key("mqtt_topic")
	w.String(cfg.MQTTTopic)
	w.ObjectEnd()

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out
}
