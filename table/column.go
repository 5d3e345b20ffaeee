package table

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Column describes how one field of a row is shown and sorted.
// Accessor extracts the field; Key identifies the column in a SortConfig.
type Column[T any] struct {
	Header   string
	Key      string
	Accessor func(T) any
	Sortable bool
}

func (c Column[T]) valueOf(row T) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(row)
}

// Text is the display form of the column's value for row. A nil value renders empty.
func (c Column[T]) Text(row T) string {
	v := c.valueOf(row)
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

func (d Direction) flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

type SortConfig struct {
	Key       string
	Direction Direction
}

// toNumber coerces a sort value the way a loosely typed UI would:
// numbers and bools convert, numeric strings parse, blank strings, nil and nil pointers are zero,
// times are unix milliseconds, anything else is NaN.
func toNumber(v any) float64 {
	switch v := v.(type) {
	case nil:
		return 0
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
	case float64:
		return v
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case time.Time:
		return float64(v.UnixMilli())
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return 0
		}
		return math.NaN()
	}
}

// compareNumbers orders a before b; NaN on either side compares equal.
func compareNumbers(a, b float64) int {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return 0
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
