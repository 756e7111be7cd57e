package models

import (
	"encoding/base64"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Settings is the kind-specific attribute bag of a section. Values are kept in
// their JSON-native form so that a document survives an encode/decode cycle
// unchanged.
type Settings map[string]interface{}

// Clone returns a deep copy of the bag.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	cloned := make(Settings, len(s))
	for key, value := range s {
		cloned[key] = cloneValue(value)
	}
	return cloned
}

// With returns a copy of the bag with key set to value. The receiver is not
// modified.
func (s Settings) With(key string, value interface{}) Settings {
	cloned := make(Settings, len(s)+1)
	for k, v := range s {
		cloned[k] = v
	}
	cloned[key] = NormaliseValue(value)
	return cloned
}

// Has reports whether key is present with a non-nil value.
func (s Settings) Has(key string) bool {
	value, ok := s[key]
	return ok && value != nil
}

func (s Settings) String(key, fallback string) string {
	switch v := s[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fallback
	}
}

func (s Settings) Int(key string, fallback int) int {
	switch v := s[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		return int(v)
	case int:
		return v
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}

func (s Settings) Bool(key string, fallback bool) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case string:
		switch strings.TrimSpace(strings.ToLower(v)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	case float64:
		return v != 0
	}
	return fallback
}

// Strings returns the string items stored under key, skipping anything else.
func (s Settings) Strings(key string) []string {
	switch values := s[key].(type) {
	case []interface{}:
		result := make([]string, 0, len(values))
		for _, item := range values {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case []string:
		return append([]string(nil), values...)
	default:
		return nil
	}
}

// NormaliseValue converts Go values into the representation produced by
// encoding/json when decoding into interface{}.
func NormaliseValue(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case []string:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = item
		}
		return items
	case []interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = NormaliseValue(item)
		}
		return items
	case []map[string]interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = NormaliseValue(item)
		}
		return items
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for key, item := range v {
			m[key] = item
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, item := range v {
			m[key] = NormaliseValue(item)
		}
		return m
	case Settings:
		m := make(map[string]interface{}, len(v))
		for key, item := range v {
			m[key] = NormaliseValue(item)
		}
		return m
	case nil, bool, float64, string:
		return value
	default:
		return normaliseReflect(value)
	}
}

// normaliseReflect handles typed slices and string-keyed maps that the
// explicit cases above do not name.
func normaliseReflect(value interface{}) interface{} {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		items := make([]interface{}, rv.Len())
		for i := range items {
			items[i] = NormaliseValue(rv.Index(i).Interface())
		}
		return items
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		if rv.IsNil() {
			return nil
		}
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = NormaliseValue(iter.Value().Interface())
		}
		return m
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	default:
		return value
	}
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case []interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = cloneValue(item)
		}
		return items
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for key, item := range v {
			m[key] = cloneValue(item)
		}
		return m
	default:
		return value
	}
}
