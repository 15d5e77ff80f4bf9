package altsv

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

// Render turns a key or value into text before escaping.
//
// Names come first: any value whose kind is string, including named string
// types such as json.Number, renders as its text. Then nil and Absent render
// as "", []byte as its bytes, and everything else through its to-string
// conversion: encoding.TextMarshaler, fmt.Stringer, error, strconv for bool
// and numbers, fmt.Sprint as the last resort. Only MarshalText can fail.
func Render(item any) (string, error) {
	switch x := item.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case Value:
		return x.s, nil
	case []byte:
		return string(x), nil
	}

	rv := reflect.ValueOf(item)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", nil
	}

	switch x := item.(type) {
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return "", err
		}
		return string(b), nil
	case fmt.Stringer:
		return x.String(), nil
	case error:
		return x.Error(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8, int16, int32, int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	}

	if rv.Kind() == reflect.Pointer {
		return Render(rv.Elem().Interface())
	}
	return fmt.Sprint(item), nil
}
