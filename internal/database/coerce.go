package database

import (
	"database/sql/driver"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// NullText is how a NULL cell is rendered.
const NullText = "NULL"

// ValueKind is a decoding strategy for one result column.
type ValueKind int

const (
	// KindUnknown columns are resolved by probing every candidate kind.
	KindUnknown ValueKind = iota
	KindText
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
	// KindTimestamp columns hold text the driver may have parsed into
	// time.Time. It is only reached through a TypeResolver, never probed.
	KindTimestamp
	// KindUnsupported columns fail on any non-NULL value.
	KindUnsupported
)

// probeOrder is the fixed sequence tried for columns of unknown kind.
var probeOrder = []ValueKind{
	KindText,
	KindInt8,
	KindInt16,
	KindInt32,
	KindInt64,
	KindFloat32,
	KindFloat64,
	KindBool,
}

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// decode renders v if it is a value of kind k.
func (k ValueKind) decode(v any) (string, bool) {
	switch k {
	case KindText:
		switch x := v.(type) {
		case string:
			return x, true
		case []byte:
			if utf8.Valid(x) {
				return string(x), true
			}
		case [16]byte:
			return uuid.UUID(x).String(), true
		}
	case KindInt8:
		if x, ok := v.(int8); ok {
			return strconv.FormatInt(int64(x), 10), true
		}
	case KindInt16:
		switch x := v.(type) {
		case int16:
			return strconv.FormatInt(int64(x), 10), true
		case uint8:
			return strconv.FormatUint(uint64(x), 10), true
		}
	case KindInt32:
		switch x := v.(type) {
		case int32:
			return strconv.FormatInt(int64(x), 10), true
		case uint16:
			return strconv.FormatUint(uint64(x), 10), true
		}
	case KindInt64:
		switch x := v.(type) {
		case int64:
			return strconv.FormatInt(x, 10), true
		case int:
			return strconv.Itoa(x), true
		case uint32:
			return strconv.FormatUint(uint64(x), 10), true
		case uint:
			if uint64(x) <= math.MaxInt64 {
				return strconv.FormatUint(uint64(x), 10), true
			}
		case uint64:
			if x <= math.MaxInt64 {
				return strconv.FormatUint(x, 10), true
			}
		}
	case KindFloat32:
		if x, ok := v.(float32); ok {
			return strconv.FormatFloat(float64(x), 'f', -1, 32), true
		}
	case KindFloat64:
		if x, ok := v.(float64); ok {
			return strconv.FormatFloat(x, 'f', -1, 64), true
		}
	case KindBool:
		if x, ok := v.(bool); ok {
			return strconv.FormatBool(x), true
		}
	case KindTimestamp:
		switch x := v.(type) {
		case time.Time:
			return FormatTimestamp(x), true
		case string:
			return x, true
		case []byte:
			if utf8.Valid(x) {
				return string(x), true
			}
		}
	}
	return "", false
}

// TimestampLayout renders time values. Fractional seconds are printed only
// when present.
const TimestampLayout = "2006-01-02 15:04:05.999999999"

// FormatTimestamp renders t with TimestampLayout, adding the UTC offset
// when it is not zero.
func FormatTimestamp(t time.Time) string {
	if _, offset := t.Zone(); offset != 0 {
		return t.Format(TimestampLayout + "-07:00")
	}
	return t.Format(TimestampLayout)
}

// probe tries every candidate kind in order and returns the first match.
func probe(v any) (string, ValueKind, bool) {
	for _, k := range probeOrder {
		if s, ok := k.decode(v); ok {
			return s, k, true
		}
	}
	return "", KindUnknown, false
}

// normalize unwraps driver.Valuer implementations such as pgtype.Numeric.
func normalize(v any) any {
	if dv, ok := v.(driver.Valuer); ok {
		if val, err := dv.Value(); err == nil {
			return val
		}
	}
	return v
}

// CoerceValue renders one cell of unknown type by probing.
func CoerceValue(column, declared string, v any) (string, error) {
	v = normalize(v)
	if v == nil {
		return NullText, nil
	}
	s, _, ok := probe(v)
	if !ok {
		return "", &UnsupportedColumnTypeError{Column: column, Type: declared, Value: v}
	}
	return s, nil
}

// TypeResolver maps an engine's declared column type name to a kind.
// It returns KindUnknown for types it has no opinion on.
type TypeResolver func(declared string) ValueKind

// ResultColumn is a result set column as reported by the driver.
type ResultColumn struct {
	Name         string
	DatabaseType string
}

// RowDecoder renders the rows of one result set. Each column's kind is
// resolved once from its declared type and, failing that, from the first
// value that probes successfully.
type RowDecoder struct {
	columns []ResultColumn
	kinds   []ValueKind
}

// NewRowDecoder creates a decoder for columns. resolve may be nil.
func NewRowDecoder(columns []ResultColumn, resolve TypeResolver) *RowDecoder {
	kinds := make([]ValueKind, len(columns))
	if resolve != nil {
		for i, c := range columns {
			kinds[i] = resolve(c.DatabaseType)
		}
	}
	return &RowDecoder{columns: columns, kinds: kinds}
}

// Headers returns the column names.
func (d *RowDecoder) Headers() []string {
	headers := make([]string, len(d.columns))
	for i, c := range d.columns {
		headers[i] = c.Name
	}
	return headers
}

// Decode renders one row of scanned values.
func (d *RowDecoder) Decode(values []any) ([]string, error) {
	row := make([]string, len(values))
	for i, v := range values {
		s, err := d.cell(i, v)
		if err != nil {
			return nil, err
		}
		row[i] = s
	}
	return row, nil
}

func (d *RowDecoder) cell(i int, v any) (string, error) {
	v = normalize(v)
	if v == nil {
		return NullText, nil
	}

	col := ResultColumn{}
	kind := KindUnknown
	if i < len(d.columns) {
		col = d.columns[i]
		kind = d.kinds[i]
	}

	switch kind {
	case KindUnsupported:
		return "", &UnsupportedColumnTypeError{Column: col.Name, Type: col.DatabaseType, Value: v}
	case KindUnknown:
	default:
		if s, ok := kind.decode(v); ok {
			return s, nil
		}
	}

	s, k, ok := probe(v)
	if !ok {
		return "", &UnsupportedColumnTypeError{Column: col.Name, Type: col.DatabaseType, Value: v}
	}
	if i < len(d.kinds) {
		d.kinds[i] = k
	}
	return s, nil
}
