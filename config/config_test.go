package config

import "testing"

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	cfg := Config{
		SSID:            "myssid",
		Password:        "hunter2",
		Brightness:      77,
		AutoBrightness:  false,
		DimTimeoutSec:   20,
		SleepTimeoutSec: 600,
		Theme:           ThemeLight,
		AnimationsOn:    false,
		OTAEnabled:      true,
		OTACheckHours:   12,
	}
	blob := Serialize(cfg)
	got, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cfg {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", cfg, got)
	}
}

func TestDeserializeMalformedReturnsError(t *testing.T) {
	if _, err := Deserialize([]byte("not json")); err == nil {
		t.Fatal("expected an error for malformed input")
	}
	if _, err := Deserialize([]byte("{}")); err == nil {
		t.Fatal("expected an error for an empty object")
	}
}

func TestLoadFallsBackToDefaultsWhenStoreEmpty(t *testing.T) {
	store := &MemStore{}
	cfg := Load(store, nil)
	if cfg != Defaults() {
		t.Fatalf("expected Defaults(), got %+v", cfg)
	}
}

func TestLoadFallsBackToDefaultsOnCorruptBlob(t *testing.T) {
	store := &MemStore{}
	store.Set(namespace, key, []byte("{garbage"))
	cfg := Load(store, nil)
	if cfg != Defaults() {
		t.Fatalf("expected Defaults() on corrupt blob, got %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := &MemStore{}
	cfg := Defaults()
	cfg.Brightness = 42
	cfg.SSID = "office-wifi"
	if err := Save(store, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := Load(store, nil)
	if got != cfg {
		t.Fatalf("expected saved config back, got %+v", got)
	}
}

func TestParseThemeRoundTrip(t *testing.T) {
	if ParseTheme(ThemeDark.String()) != ThemeDark {
		t.Fatal("dark theme did not round trip")
	}
	if ParseTheme(ThemeLight.String()) != ThemeLight {
		t.Fatal("light theme did not round trip")
	}
}
