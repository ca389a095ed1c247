package main

import (
	"fmt"
	"log"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// field_resolver turns field configs into values for one frame's worth of
// drawing. It never fails: problems are logged and resolve to 0 or an empty
// array so that one malformed shape cannot abort the draw pass.
type field_resolver struct {
	data *result_set
}

func new_field_resolver(data *result_set) *field_resolver {
	return &field_resolver{data: data}
}

// scalar returns the constant or the last value of the bound field. The
// result is a float64, a string, or whatever the frame holds.
func (r *field_resolver) scalar(fc field_config) (ret any) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("resolve: scalar %+v failed: %v\n", fc, rec)
			ret = 0.0
		}
	}()
	switch fc.Type {
	case FIELD_KIND_CONSTANT:
		if fc.Constant == nil {
			return 0.0
		}
		return fc.Constant
	case FIELD_KIND_FIELD:
		v, ok := r.last_value(fc)
		if !ok || v == nil {
			return 0.0
		}
		return v
	}
	log.Printf("resolve: unknown field config type %q\n", fc.Type)
	return 0.0
}

// number resolves fc for numeric use.
func (r *field_resolver) number(fc field_config) float64 {
	return number_of(r.scalar(fc))
}

// array resolves fc into a list of numbers, trying in order: an array-valued
// last sample, an all-numeric column and a comma-separated last sample.
func (r *field_resolver) array(fc field_config) (ret []float64) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("resolve: array %+v failed: %v\n", fc, rec)
			ret = []float64{}
		}
	}()
	switch fc.Type {
	case FIELD_KIND_CONSTANT:
		if s, ok := fc.Constant.(string); ok {
			return numbers_split(s)
		}
		return []float64{}
	case FIELD_KIND_FIELD:
		field := r.field(fc)
		last, ok := field.last()
		if !ok {
			return []float64{}
		}
		if vals, ok := slice_numbers(last); ok {
			return vals
		}
		if vals, ok := column_numbers(field.values); ok {
			return vals
		}
		if s, ok := last.(string); ok && strings.Contains(s, ",") {
			return numbers_split(s)
		}
		return []float64{}
	}
	log.Printf("resolve: unknown field config type %q\n", fc.Type)
	return []float64{}
}

// text resolves fc as a string, used for image sources.
func (r *field_resolver) text(fc field_config) string {
	switch v := r.scalar(fc).(type) {
	case string:
		return v
	case float64:
		return number_format_plain(v)
	default:
		return fmt.Sprint(v)
	}
}

func (r *field_resolver) field(fc field_config) *frame_field {
	if fc.Field == "" {
		return nil
	}
	f := r.data.frame_select(fc.FrameIndex)
	if f == nil {
		log.Printf("resolve: no frame for field %q\n", fc.Field)
		return nil
	}
	field := f.field(fc.Field)
	if field == nil {
		log.Printf("resolve: field %q not found in frame %q\n", fc.Field, f.name)
	}
	return field
}

func (r *field_resolver) last_value(fc field_config) (any, bool) {
	return r.field(fc).last()
}

// number_parse parses a trimmed decimal token. Anything else, including
// NaN and infinities, is 0.
func number_parse(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func numbers_split(s string) []float64 {
	if strings.TrimSpace(s) == "" {
		return []float64{}
	}
	parts := strings.Split(s, ",")
	ret := make([]float64, len(parts))
	for i, part := range parts {
		ret[i] = number_parse(part)
	}
	return ret
}

// number_is reports whether v is one of Go's numeric kinds.
func number_is(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// number_of coerces a resolved value into a float64.
func number_of(v any) float64 {
	if v == nil {
		return 0
	}
	switch vv := v.(type) {
	case float64:
		if math.IsNaN(vv) || math.IsInf(vv, 0) {
			return 0
		}
		return vv
	case string:
		return number_parse(vv)
	case bool:
		if vv {
			return 1
		}
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32:
		return number_of(rv.Float())
	}
	return 0
}

// slice_numbers maps an array-valued sample to numbers.
func slice_numbers(v any) ([]float64, bool) {
	if v == nil {
		return nil, false
	}
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	ret := make([]float64, rv.Len())
	for i := range ret {
		ret[i] = number_of(rv.Index(i).Interface())
	}
	return ret, true
}

// column_numbers returns the non-nil values of a column when all of them are
// numeric.
func column_numbers(values []any) ([]float64, bool) {
	ret := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		if !number_is(v) {
			return nil, false
		}
		ret = append(ret, number_of(v))
	}
	return ret, len(ret) > 0
}
