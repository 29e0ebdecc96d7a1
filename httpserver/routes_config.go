package httpserver

import (
	"openenterprise/tinydash/apierr"
	"openenterprise/tinydash/config"
	"openenterprise/tinydash/jsonw"
)

// ConfigRoutes registers GET/POST /api/config and PATCH
// /api/v1/config/{field}. onChange is invoked after every successful
// write so main.go can push the new config to the UI/power manager.
func ConfigRoutes(rt *Router, store config.Store, current func() config.Config, onChange func(config.Config)) {
	rt.Handle("GET", "/api/config", func(w *ResponseWriter, r *Request, c Clock) {
		w.SetHeader("Content-Type", "application/json")
		var buf [512]byte
		jw := jsonw.NewWriter(buf[:])
		writeRedactedConfig(jw, current())
		w.Write(jw.Bytes())
	})

	rt.Handle("POST", "/api/config", func(w *ResponseWriter, r *Request, c Clock) {
		cfg, err := config.Deserialize(r.Body)
		if err != nil {
			WriteError(w, apierr.Error{Code: apierr.CodeBadRequest, Message: "invalid config body"}, c)
			return
		}
		if err := config.Save(store, cfg); err != nil {
			WriteError(w, apierr.Error{Code: apierr.CodeInternal, Message: "failed to persist config"}, c)
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
		w.SetHeader("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	rt.HandlePrefix("PATCH", "/api/v1/config/", func(w *ResponseWriter, r *Request, c Clock) {
		cfg := current()
		if err := applyField(&cfg, r.PathParam, r.Body); err != nil {
			WriteError(w, apierr.Error{Code: apierr.CodeBadRequest, Message: err.Error()}.WithField(r.PathParam), c)
			return
		}
		if err := config.Save(store, cfg); err != nil {
			WriteError(w, apierr.Error{Code: apierr.CodeInternal, Message: "failed to persist config"}, c)
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
		w.SetHeader("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
}

func writeRedactedConfig(w *jsonw.Writer, cfg config.Config) {
	w.ObjectStart()
	w.Key("ssid")
	w.String(cfg.SSID)
	w.Comma()
	w.Key("password")
	w.String("********")
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
}

// applyField patches a single field of cfg from a raw JSON scalar body,
// e.g. PATCH /api/v1/config/brightness with body "128".
func applyField(cfg *config.Config, fieldName string, body []byte) error {
	s := string(trimQuotesAndSpace(body))
	switch fieldName {
	case "brightness":
		n, ok := parseUint(s)
		if !ok || n > 255 {
			return errBadValue
		}
		cfg.Brightness = uint8(n)
	case "auto_brightness":
		cfg.AutoBrightness = s == "true"
	case "dim_timeout_sec":
		n, ok := parseUint(s)
		if !ok {
			return errBadValue
		}
		cfg.DimTimeoutSec = uint16(n)
	case "sleep_timeout_sec":
		n, ok := parseUint(s)
		if !ok {
			return errBadValue
		}
		cfg.SleepTimeoutSec = uint16(n)
	case "theme":
		cfg.Theme = config.ParseTheme(trimQuotes(s))
	case "animations_on":
		cfg.AnimationsOn = s == "true"
	case "ota_enabled":
		cfg.OTAEnabled = s == "true"
	case "ota_check_hours":
		n, ok := parseUint(s)
		if !ok {
			return errBadValue
		}
		cfg.OTACheckHours = uint16(n)
	case "ssid":
		cfg.SSID = trimQuotes(s)
	case "password":
		cfg.Password = trimQuotes(s)
	case "mqtt_enabled":
		cfg.MQTTEnabled = s == "true"
	case "mqtt_broker":
		cfg.MQTTBroker = trimQuotes(s)
	case "mqtt_topic":
		cfg.MQTTTopic = trimQuotes(s)
	default:
		return errUnknownField
	}
	return nil
}

var (
	errBadValue     = badValueErr{}
	errUnknownField = unknownFieldErr{}
)

type badValueErr struct{}

func (badValueErr) Error() string { return "invalid value for field" }

type unknownFieldErr struct{}

func (unknownFieldErr) Error() string { return "unknown config field" }

func trimQuotesAndSpace(b []byte) []byte {
	return []byte(trimSpace(string(b)))
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseUint(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + uint64(s[i]-'0')
	}
	return n, true
}
