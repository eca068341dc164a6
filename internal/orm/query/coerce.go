package query

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/conduit-lang/querykit/internal/orm/schema"
)

var (
	dateLayouts     = []string{"2006-01-02"}
	dateTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}
	timeLayouts     = []string{"15:04", "15:04:05"}
)

// isEmpty reports whether a submitted value stands for "no value"
func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

// Coerce converts a submitted value to the Go value bound for the field's
// type. Empty values of non-text fields bind NULL.
func Coerce(f *schema.Field, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" && !f.IsText() {
		return nil, nil
	}

	switch f.Type {
	case schema.TypeInteger, schema.TypeLOV:
		return toInt(v)

	case schema.TypeDecimal, schema.TypeMoney:
		return toFloat(v)

	case schema.TypeBoolean:
		return toBool(v)

	case schema.TypeDate:
		return toTime(v, dateLayouts)
	case schema.TypeDateTime:
		return toTime(v, dateTimeLayouts)
	case schema.TypeTime:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a time, got %T", v)
		}
		if _, err := toTime(s, timeLayouts); err != nil {
			return nil, err
		}
		return s, nil

	case schema.TypeEmail:
		s, ok := v.(string)
		if !ok || !strings.Contains(s, "@") {
			return nil, fmt.Errorf("expected an email address")
		}
		return s, nil

	case schema.TypeURL:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a url, got %T", v)
		}
		u, err := url.Parse(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("expected an absolute http url")
		}
		return s, nil

	case schema.TypeList:
		ids, err := toIntList(v)
		if err != nil {
			return nil, err
		}
		return pq.Int64Array(ids), nil

	case schema.TypeJSON:
		if s, ok := v.(string); ok {
			if !json.Valid([]byte(s)) {
				return nil, fmt.Errorf("expected a json document")
			}
			return s, nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}

	// text-like types
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case float64, int, int64, bool:
		return fmt.Sprint(val), nil
	}
	return nil, fmt.Errorf("expected text, got %T", v)
}

func toInt(v interface{}) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int64:
		return val, nil
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("expected a whole number, got %v", val)
		}
		if val >= 1<<63 || val < -(1<<63) {
			return 0, fmt.Errorf("whole number out of range: %v", val)
		}
		return int64(val), nil
	case json.Number:
		return val.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	}
	return 0, fmt.Errorf("expected a whole number, got %T", v)
}

func toFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float64:
		return val, nil
	case json.Number:
		return val.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(val), 64)
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func toBool(v interface{}) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case float64:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	case int:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	case json.Number:
		if n, err := val.Int64(); err == nil && (n == 0 || n == 1) {
			return n == 1, nil
		}
	case string:
		switch strings.ToLower(val) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	}
	return false, fmt.Errorf("expected a boolean, got %v", v)
}

func toTime(v interface{}, layouts []string) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("expected a string, got %T", v)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func toIntList(v interface{}) ([]int64, error) {
	switch val := v.(type) {
	case []int64:
		return val, nil
	case []interface{}:
		ids := make([]int64, 0, len(val))
		for _, item := range val {
			id, err := toInt(item)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	case string:
		var ids []int64
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}
	return nil, fmt.Errorf("expected a list of ids, got %T", v)
}
