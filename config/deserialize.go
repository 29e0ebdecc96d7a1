package config

import "errors"

// ErrMalformed is returned by Deserialize when raw isn't a recognizable
// flat JSON object of the expected shape.
var ErrMalformed = errors.New("config: malformed blob")

// Deserialize is Serialize's inverse. It is a small hand-rolled scanner,
// not a general JSON parser: the blob only ever holds this package's flat
// object of strings/uints/bools, the same narrowing the jsonw package
// makes on the write side to avoid encoding/json's reflection-driven
// allocations.
func Deserialize(raw []byte) (Config, error) {
	cfg := Defaults()
	fields, err := scanObject(raw)
	if err != nil {
		return Config{}, err
	}
	if len(fields) == 0 {
		return Config{}, ErrMalformed
	}

	for _, f := range fields {
		switch f.key {
		case "ssid":
			cfg.SSID = f.strValue
		case "password":
			cfg.Password = f.strValue
		case "brightness":
			cfg.Brightness = uint8(f.uintValue)
		case "auto_brightness":
			cfg.AutoBrightness = f.boolValue
		case "dim_timeout_sec":
			cfg.DimTimeoutSec = uint16(f.uintValue)
		case "sleep_timeout_sec":
			cfg.SleepTimeoutSec = uint16(f.uintValue)
		case "theme":
			cfg.Theme = ParseTheme(f.strValue)
		case "animations_on":
			cfg.AnimationsOn = f.boolValue
		case "ota_enabled":
			cfg.OTAEnabled = f.boolValue
		case "ota_check_hours":
			cfg.OTACheckHours = uint16(f.uintValue)
		case "mqtt_enabled":
			cfg.MQTTEnabled = f.boolValue
		case "mqtt_broker":
			cfg.MQTTBroker = f.strValue
		case "mqtt_topic":
			cfg.MQTTTopic = f.strValue
		}
	}
	return cfg, nil
}

type field struct {
	key       string
	strValue  string
	uintValue uint64
	boolValue bool
}

// scanObject walks a flat {"key":value,...} object, one field at a time.
// Nested objects/arrays are not supported; this package never writes any.
func scanObject(raw []byte) ([]field, error) {
	i := skipSpace(raw, 0)
	if i >= len(raw) || raw[i] != '{' {
		return nil, ErrMalformed
	}
	i++

	var fields []field
	for {
		i = skipSpace(raw, i)
		if i >= len(raw) {
			return nil, ErrMalformed
		}
		if raw[i] == '}' {
			return fields, nil
		}
		if raw[i] != '"' {
			return nil, ErrMalformed
		}

		key, next, err := scanString(raw, i)
		if err != nil {
			return nil, err
		}
		i = skipSpace(raw, next)
		if i >= len(raw) || raw[i] != ':' {
			return nil, ErrMalformed
		}
		i = skipSpace(raw, i+1)
		if i >= len(raw) {
			return nil, ErrMalformed
		}

		var f field
		f.key = key
		switch {
		case raw[i] == '"':
			s, next, err := scanString(raw, i)
			if err != nil {
				return nil, err
			}
			f.strValue = s
			i = next
		case raw[i] == 't' || raw[i] == 'f':
			b, next, err := scanBool(raw, i)
			if err != nil {
				return nil, err
			}
			f.boolValue = b
			i = next
		default:
			n, next, err := scanUint(raw, i)
			if err != nil {
				return nil, err
			}
			f.uintValue = n
			i = next
		}
		fields = append(fields, f)

		i = skipSpace(raw, i)
		if i >= len(raw) {
			return nil, ErrMalformed
		}
		if raw[i] == ',' {
			i++
			continue
		}
		if raw[i] == '}' {
			return fields, nil
		}
		return nil, ErrMalformed
	}
}

func skipSpace(raw []byte, i int) int {
	for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t' || raw[i] == '\n' || raw[i] == '\r') {
		i++
	}
	return i
}

// scanString reads a quoted string starting at raw[i]=='"', handling the
// small escape set jsonw.Writer.String produces.
func scanString(raw []byte, i int) (string, int, error) {
	if i >= len(raw) || raw[i] != '"' {
		return "", i, ErrMalformed
	}
	i++
	var out []byte
	for i < len(raw) {
		b := raw[i]
		if b == '"' {
			return string(out), i + 1, nil
		}
		if b == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			default:
				return "", i, ErrMalformed
			}
			i += 2
			continue
		}
		out = append(out, b)
		i++
	}
	return "", i, ErrMalformed
}

func scanBool(raw []byte, i int) (bool, int, error) {
	if i+4 <= len(raw) && string(raw[i:i+4]) == "true" {
		return true, i + 4, nil
	}
	if i+5 <= len(raw) && string(raw[i:i+5]) == "false" {
		return false, i + 5, nil
	}
	return false, i, ErrMalformed
}

func scanUint(raw []byte, i int) (uint64, int, error) {
	start := i
	var n uint64
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		n = n*10 + uint64(raw[i]-'0')
		i++
	}
	if i == start {
		return 0, i, ErrMalformed
	}
	return n, i, nil
}
