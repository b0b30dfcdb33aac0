package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// PropertyCategory identifies the variant of a PropertyValue.
type PropertyCategory string

const (
	PropertyPrimitive PropertyCategory = "PRIMITIVE"
	PropertyEnum      PropertyCategory = "ENUM"
	PropertyArray     PropertyCategory = "ARRAY"
	PropertyMap       PropertyCategory = "MAP"
)

// PropertyValue is a *PrimitiveValue, *EnumValue, *ArrayValue or *MapValue.
type PropertyValue interface {
	PropertyCategory() PropertyCategory
}

// InstanceProperties maps property names to values.
type InstanceProperties map[string]PropertyValue

// PropertyValues is an ordered list of values, used by arrays.
type PropertyValues []PropertyValue

// PrimitiveValue holds a scalar. Value's Go type follows Kind: bool, int8,
// int16, int, int64, float32, float64, string (char, string, biginteger,
// bigdecimal) or time.Time (date).
type PrimitiveValue struct {
	Kind     PrimitiveKind `json:"primitiveDefCategory" yaml:"primitiveDefCategory"`
	TypeGUID string        `json:"typeGUID,omitempty" yaml:"typeGUID,omitempty"`
	TypeName string        `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	Value    any           `json:"primitiveValue" yaml:"primitiveValue"`
}

func (*PrimitiveValue) PropertyCategory() PropertyCategory { return PropertyPrimitive }

// EnumValue holds one element of an enum.
type EnumValue struct {
	TypeGUID    string `json:"typeGUID,omitempty" yaml:"typeGUID,omitempty"`
	TypeName    string `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	Ordinal     int    `json:"ordinal" yaml:"ordinal"`
	Symbolic    string `json:"symbolicName" yaml:"symbolicName"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (*EnumValue) PropertyCategory() PropertyCategory { return PropertyEnum }

// ArrayValue holds an ordered list of values.
type ArrayValue struct {
	TypeGUID string         `json:"typeGUID,omitempty" yaml:"typeGUID,omitempty"`
	TypeName string         `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	Values   PropertyValues `json:"arrayValues" yaml:"arrayValues"`
}

func (*ArrayValue) PropertyCategory() PropertyCategory { return PropertyArray }

// MapValue holds named values.
type MapValue struct {
	TypeGUID string             `json:"typeGUID,omitempty" yaml:"typeGUID,omitempty"`
	TypeName string             `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	Values   InstanceProperties `json:"mapValues" yaml:"mapValues"`
}

func (*MapValue) PropertyCategory() PropertyCategory { return PropertyMap }

// Subset returns the properties whose names are in names. It returns nil
// when nothing matches.
func (p InstanceProperties) Subset(names []string) InstanceProperties {
	var out InstanceProperties
	for _, name := range names {
		v, ok := p[name]
		if !ok {
			continue
		}
		if out == nil {
			out = make(InstanceProperties)
		}
		out[name] = v
	}
	return out
}

// String returns the value of a string-like primitive property, or "".
func (p InstanceProperties) String(name string) string {
	pv, ok := p[name].(*PrimitiveValue)
	if !ok {
		return ""
	}
	if s, ok := pv.Value.(string); ok {
		return s
	}
	return ""
}

// NormalizePrimitive coerces v to the Go type used for kind. Decoders produce
// float64 for every JSON number and strings for dates; this restores the
// declared representation.
func NormalizePrimitive(kind PrimitiveKind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case PrimitiveBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%s value %v is %T", kind, v, v)
		}
		return b, nil
	case PrimitiveByte, PrimitiveShort, PrimitiveInt, PrimitiveLong:
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("%s value: %w", kind, err)
		}
		switch kind {
		case PrimitiveByte:
			if n < math.MinInt8 || n > math.MaxInt8 {
				return nil, fmt.Errorf("%s value %d out of range", kind, n)
			}
			return int8(n), nil
		case PrimitiveShort:
			if n < math.MinInt16 || n > math.MaxInt16 {
				return nil, fmt.Errorf("%s value %d out of range", kind, n)
			}
			return int16(n), nil
		case PrimitiveInt:
			return int(n), nil
		}
		return n, nil
	case PrimitiveFloat, PrimitiveDouble:
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("%s value: %w", kind, err)
		}
		if kind == PrimitiveFloat {
			return float32(f), nil
		}
		return f, nil
	case PrimitiveChar, PrimitiveString, PrimitiveBigInteger, PrimitiveBigDecimal:
		switch s := v.(type) {
		case string:
			return s, nil
		case rune:
			return string(s), nil
		}
		return fmt.Sprint(v), nil
	case PrimitiveDate:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return nil, fmt.Errorf("%s value: %w", kind, err)
			}
			return parsed, nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("%s value: %w", kind, err)
		}
		return time.UnixMilli(n).UTC(), nil
	}
	return v, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return floatToInt64(f)
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("%v (%T) is not an integer", v, v)
}

func floatToInt64(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int64(f), nil
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	}
	i, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("%v (%T) is not a number", v, v)
	}
	return float64(i), nil
}
