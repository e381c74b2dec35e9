package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is how dates are read and written.
const DateLayout = "2006-01-02"

// FormatValue renders v as a CSV cell. nil and NaN are the empty string.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(DateLayout)
	default:
		return ""
	}
}

// ToFloat converts numbers and numeric strings to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(x, ",", "")), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// IsMissing reports whether v is the missing marker or NaN.
func IsMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}

// ParseDate parses s with layout and returns it as a UTC date.
func ParseDate(layout, s string) (time.Time, error) {
	d, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CompareValues orders values for sorting: missing values first, then
// numbers, then dates, then strings.
func CompareValues(a, b interface{}) int {
	ra, rb := valueRank(a), valueRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 0:
		return 0
	case 1:
		fa, _ := ToFloat(a)
		fb, _ := ToFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		ta, tb := a.(time.Time), b.(time.Time)
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		}
		return 0
	default:
		return strings.Compare(FormatValue(a), FormatValue(b))
	}
}

func valueRank(v interface{}) int {
	if IsMissing(v) {
		return 0
	}
	switch v.(type) {
	case float64, float32, int, int64, int32:
		return 1
	case time.Time:
		return 2
	default:
		return 3
	}
}
