package vschema

import (
	"encoding/json"
	"fmt"
	"time"

	"inverter/typespec"
)

const dateLayout = "2006-01-02"

var epochDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// codec carries a field's serialized type token and the value transforms for
// one policy. encode goes domain -> serialized, decode the reverse.
type codec struct {
	token  string
	format string
	encode func(any) (any, error)
	decode func(any) (any, error)
}

type profile map[typespec.ScalarEnum]codec

// profiles is the per-policy scalar table. The engine is identical across
// policies; this table is the whole difference.
var profiles = map[Policy]profile{
	PolicyNative:     nativeProfile(),
	PolicyJSONSafe:   jsonSafeProfile(),
	PolicyAvroSafe:   avroSafeProfile(),
	PolicySearchSafe: searchSafeProfile(),
}

func nativeProfile() profile {
	return profile{
		typespec.ScalarString:   identityCodec("string"),
		typespec.ScalarInteger:  identityCodec("integer"),
		typespec.ScalarFloat:    identityCodec("float"),
		typespec.ScalarBoolean:  identityCodec("boolean"),
		typespec.ScalarDate:     identityCodec("date"),
		typespec.ScalarDatetime: identityCodec("datetime"),
		typespec.ScalarBinary:   identityCodec("binary"),
		typespec.ScalarJSON:     identityCodec("json"),
	}
}

func jsonSafeProfile() profile {
	p := nativeProfile()
	p[typespec.ScalarDate] = epochDaysCodec()
	p[typespec.ScalarDatetime] = epochMillisCodec()
	return p
}

func avroSafeProfile() profile {
	p := jsonSafeProfile()
	p[typespec.ScalarJSON] = jsonStringCodec()
	return p
}

func searchSafeProfile() profile {
	p := nativeProfile()
	p[typespec.ScalarDate] = isoDateCodec()
	p[typespec.ScalarDatetime] = isoDatetimeCodec()
	return p
}

func identityCodec(token string) codec {
	pass := func(v any) (any, error) { return v, nil }
	return codec{token: token, encode: pass, decode: pass}
}

// epochDaysCodec serializes dates as whole days since 1970-01-01. Decoding
// also accepts ISO date strings, mirroring permissive JSON intake.
func epochDaysCodec() codec {
	return codec{
		token:  "integer",
		format: "days-since-epoch",
		encode: func(v any) (any, error) {
			t, err := timeValue(v)
			if err != nil {
				return nil, err
			}
			return int(t.UTC().Truncate(24*time.Hour).Sub(epochDate).Hours() / 24), nil
		},
		decode: func(v any) (any, error) {
			switch d := v.(type) {
			case int:
				return epochDate.AddDate(0, 0, d), nil
			case int64:
				return epochDate.AddDate(0, 0, int(d)), nil
			case float64:
				return epochDate.AddDate(0, 0, int(d)), nil
			case string:
				return time.Parse(dateLayout, d)
			}
			return nil, fmt.Errorf("date expects days since 1970-01-01 or an ISO date string, got %T", v)
		},
	}
}

// epochMillisCodec serializes datetimes as Unix milliseconds in UTC.
func epochMillisCodec() codec {
	return codec{
		token:  "integer",
		format: "epoch-millis",
		encode: func(v any) (any, error) {
			t, err := timeValue(v)
			if err != nil {
				return nil, err
			}
			return t.UTC().UnixMilli(), nil
		},
		decode: func(v any) (any, error) {
			switch ms := v.(type) {
			case int:
				return time.UnixMilli(int64(ms)).UTC(), nil
			case int64:
				return time.UnixMilli(ms).UTC(), nil
			case float64:
				return time.UnixMilli(int64(ms)).UTC(), nil
			case string:
				return time.Parse(time.RFC3339, ms)
			}
			return nil, fmt.Errorf("datetime expects Unix milliseconds or an ISO string, got %T", v)
		},
	}
}

func isoDateCodec() codec {
	return codec{
		token:  "string",
		format: dateLayout,
		encode: func(v any) (any, error) {
			t, err := timeValue(v)
			if err != nil {
				return nil, err
			}
			return t.Format(dateLayout), nil
		},
		decode: func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("date expects a %s string, got %T", dateLayout, v)
			}
			return time.Parse(dateLayout, s)
		},
	}
}

func isoDatetimeCodec() codec {
	return codec{
		token:  "string",
		format: time.RFC3339,
		encode: func(v any) (any, error) {
			t, err := timeValue(v)
			if err != nil {
				return nil, err
			}
			return t.UTC().Format(time.RFC3339), nil
		},
		decode: func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("datetime expects an ISO-8601 string, got %T", v)
			}
			return time.Parse(time.RFC3339, s)
		},
	}
}

// jsonStringCodec flattens JSON blobs to strings, the Avro-safe policy.
func jsonStringCodec() codec {
	return codec{
		token:  "string",
		format: "json",
		encode: func(v any) (any, error) {
			data, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			return string(data), nil
		},
		decode: func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("json blob expects a string, got %T", v)
			}
			var out any
			if err := json.Unmarshal([]byte(s), &out); err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

func timeValue(v any) (time.Time, error) {
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("expected time.Time, got %T", v)
	}
	return t, nil
}
