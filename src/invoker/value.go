package invoker

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/pwszpl/go-wlsrealm/src/bean"
)

// Value is a decoded remote result. Accessors coerce the underlying wire
// value to the requested type; a null Value fails every accessor except
// IsNull.
type Value struct {
	v any
}

// Null is the Value of an absent attribute or a void method result.
var Null = Value{}

func NewValue(v any) Value { return Value{v: v} }

func (v Value) IsNull() bool { return v.v == nil }

// Raw returns the wire value as decoded, without coercion.
func (v Value) Raw() any { return v.v }

func (v Value) Bool() (bool, error) {
	if v.v == nil {
		return false, errNull("boolean")
	}
	return cast.ToBoolE(v.v)
}

func (v Value) String() (string, error) {
	if v.v == nil {
		return "", errNull("string")
	}
	return cast.ToStringE(v.v)
}

func (v Value) Int() (int, error) {
	if v.v == nil {
		return 0, errNull("integer")
	}
	return cast.ToIntE(v.v)
}

// Handle interprets the value as a bean reference.
func (v Value) Handle() (bean.Handle, error) {
	s, err := v.String()
	if err != nil {
		return "", err
	}
	return bean.Handle(s), nil
}

// HandleSlice interprets the value as an array of bean references.
func (v Value) HandleSlice() ([]bean.Handle, error) {
	if v.v == nil {
		return nil, errNull("handle array")
	}
	raw, err := cast.ToStringSliceE(v.v)
	if err != nil {
		return nil, err
	}
	out := make([]bean.Handle, len(raw))
	for i, s := range raw {
		out[i] = bean.Handle(s)
	}
	return out, nil
}

func errNull(want string) error {
	return fmt.Errorf("expected %s, got null", want)
}
