package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/warehouse/types"
)

// Canonical type names. Every accepted alias maps to one of these.
const (
	typeLong      = "long"
	typeInt       = "int"
	typeShort     = "short"
	typeByte      = "byte"
	typeDouble    = "double"
	typeFloat     = "float"
	typeString    = "string"
	typeBoolean   = "boolean"
	typeBinary    = "binary"
	typeDate      = "date"
	typeTimestamp = "timestamp"
)

var typeAliases = map[string]string{
	"long":          typeLong,
	"bigint":        typeLong,
	"int":           typeInt,
	"integer":       typeInt,
	"short":         typeShort,
	"smallint":      typeShort,
	"byte":          typeByte,
	"tinyint":       typeByte,
	"double":        typeDouble,
	"decimal":       typeDouble, // lossy beyond float64 precision
	"float":         typeFloat,
	"real":          typeFloat,
	"string":        typeString,
	"varchar":       typeString,
	"char":          typeString,
	"boolean":       typeBoolean,
	"bool":          typeBoolean,
	"binary":        typeBinary,
	"date":          typeDate,
	"timestamp":     typeTimestamp,
	"timestamp_ntz": typeTimestamp,
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

var errNotNumber = errors.New("not a number")

// canonicalType resolves a type name, including parameterized forms such as
// "decimal(10,2)" and "varchar(20)", to its canonical name.
func canonicalType(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(key, '('); i > 0 {
		key = key[:i]
	}

	canonical, ok := typeAliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownType, name)
	}

	return canonical, nil
}

// Cast converts value to the Go type that represents typeName.
//
// nil is returned unchanged. Integer casts fail on overflow rather than
// wrapping. Decimals are represented as float64, so values beyond 15 to 17
// significant digits (e.g. DECIMAL(38,0)) are rounded; read such columns
// as "string" to keep them exact.
//
// Returns:
//   - any: The converted value
//   - error: wraps types.ErrUnknownType for unsupported names, or a *types.CastError
func Cast(value any, typeName string) (any, error) {
	canonical, err := canonicalType(typeName)
	if err != nil {
		return nil, err
	}

	return castCanonical(value, canonical)
}

// ParseValue converts a textual cell, as returned by the statement API, to
// the Go type of the column's declared type.
//
// Empty text in a non-string column is treated as NULL. Types the library
// does not model (arrays, maps, structs, intervals) stay as text. DECIMAL
// cells become float64 and lose precision as described on Cast.
func ParseValue(typeName, text string) (any, error) {
	canonical, err := canonicalType(typeName)
	if errors.Is(err, types.ErrUnknownType) {
		return text, nil
	}

	if text == "" && canonical != typeString {
		return nil, nil
	}

	return castCanonical(text, canonical)
}

func castCanonical(value any, canonical string) (any, error) {
	if value == nil {
		return nil, nil
	}

	var (
		out any
		err error
	)

	switch canonical {
	case typeLong:
		out, err = toInt64(value)
	case typeInt:
		out, err = toSized(value, math.MinInt32, math.MaxInt32, func(n int64) any { return int32(n) })
	case typeShort:
		out, err = toSized(value, math.MinInt16, math.MaxInt16, func(n int64) any { return int16(n) })
	case typeByte:
		out, err = toSized(value, math.MinInt8, math.MaxInt8, func(n int64) any { return int8(n) })
	case typeDouble:
		out, err = toFloat64(value)
	case typeFloat:
		var f float64
		f, err = toFloat64(value)
		out = float32(f)
	case typeString:
		out = toString(value)
	case typeBoolean:
		out, err = toBool(value)
	case typeBinary:
		out, err = toBinary(value)
	case typeDate:
		var t time.Time
		t, err = toTime(value)
		out = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case typeTimestamp:
		out, err = toTime(value)
	}

	if err != nil {
		return nil, &types.CastError{Type: canonical, Value: value, Cause: err}
	}

	return out, nil
}

func withColumn(err error, column string) error {
	var castErr *types.CastError
	if errors.As(err, &castErr) {
		castErr.Column = column
	}

	return err
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, strconv.ErrRange
		}
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, strconv.ErrRange
		}
		return int64(v), nil
	case float64:
		return floatToInt64(v)
	case float32:
		return floatToInt64(float64(v))
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseInt64(v)
	case []byte:
		return parseInt64(string(v))
	default:
		return 0, errNotNumber
	}
}

func parseInt64(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	// Decimal text such as "7.0" is accepted when it holds a whole number.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return floatToInt64(f)
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errNotNumber
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, strconv.ErrRange
	}

	return int64(f), nil
}

func toSized(value any, lo, hi int64, narrow func(int64) any) (any, error) {
	n, err := toInt64(value)
	if err != nil {
		return nil, err
	}
	if n < lo || n > hi {
		return nil, strconv.ErrRange
	}

	return narrow(n), nil
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	default:
		n, err := toInt64(value)
		if err != nil {
			return 0, err
		}
		return float64(n), nil
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	case []byte:
		return strconv.ParseBool(strings.TrimSpace(string(v)))
	default:
		n, err := toInt64(value)
		if err != nil {
			return false, err
		}
		return n != 0, nil
	}
}

func toBinary(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported source type %T", value)
	}
}

func toTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return time.Time{}, fmt.Errorf("unsupported source type %T", value)
	}
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
