package primitive

import (
	"reflect"

	"wxr-importer/internal/record"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it for nil and unsupported values

	KindInt
	KindFloat
	KindBool
	KindString
	KindList   // []record.Record or any other slice
	KindRecord // record.Record
)

// IsScalar reports whether values of the kind can be rendered as a single string.
func (k KindEnum) IsScalar() bool {
	switch k {
	default:
		return false
	case KindInt, KindFloat, KindBool, KindString:
		return true
	}
}

// Of classifies a field value.
func Of(v any) KindEnum {
	switch v.(type) {
	case nil:
		return 0
	case string:
		return KindString
	case bool:
		return KindBool
	case record.Record, *record.Record:
		return KindRecord
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	default:
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Slice, reflect.Array:
		return KindList
	}
}
