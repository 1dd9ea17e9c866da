package req

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	v10 "github.com/go-playground/validator/v10"
	"github.com/xy-planning-network/enum"
)

var enumerableType = reflect.TypeOf((*enum.Enumerable)(nil)).Elem()

// An enumerableField carries a struct-typed enum.Enumerable, such as an enum.Ref or the
// enum.Value behind a pointer, to the "enum" rule.
// The validator walks into struct fields instead of applying their rules,
// so such fields are swapped for this non-struct stand-in before rules run.
type enumerableField func() enum.Enumerable

type validator struct {
	valid *v10.Validate

	// mu guards registering stand-ins against concurrent validation.
	mu    *sync.RWMutex
	known map[reflect.Type]bool
}

// newValidator constructs a validator, which applies default configuration.
func newValidator() validator {
	v := v10.New()
	v.RegisterValidation("enum", validateEnumerable)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"json", "schema"} {
			name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}

		return ""
	})

	return validator{valid: v, mu: new(sync.RWMutex), known: make(map[reflect.Type]bool)}
}

// validate checks the fields on structPtr match the rules set by "validate" struct tags.
// On success, validate returns no error.
// On failure, validate translates each issue to a ValidationError,
// returning them all as ValidationErrors.
func (v validator) validate(structPtr any) error {
	v.prepare(reflect.TypeOf(structPtr))

	v.mu.RLock()
	err := v.valid.Struct(structPtr)
	v.mu.RUnlock()
	if err == nil {
		return nil
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	validateErrs := make(ValidationErrors, 0, len(errs))
	for _, fe := range errs {
		validateErrs = append(validateErrs, translate(fe))
	}

	return validateErrs
}

// translate renders fe with its namespace trimmed of the top-level struct,
// reporting the field's own value where a stand-in was validated.
func translate(fe v10.FieldError) ValidationError {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	got, typ := fe.Value(), fe.Type()
	if ef, ok := got.(enumerableField); ok {
		if got = ef(); got != nil {
			typ = reflect.TypeOf(got)
		}
	}

	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}

	return ValidationError{Field: field, Got: got, Rule: rule + "; " + typ.String()}
}

// prepare registers a stand-in for every struct-typed enum.Enumerable reachable from t
// not seen before.
func (v validator) prepare(t reflect.Type) {
	if t == nil {
		return
	}

	var found []reflect.Type
	v.mu.RLock()
	collect(t, v.known, make(map[reflect.Type]bool), &found)
	v.mu.RUnlock()

	if len(found) == 0 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, ft := range found {
		if v.known[ft] {
			continue
		}

		v.valid.RegisterCustomTypeFunc(standIn, reflect.Zero(ft).Interface())
		v.known[ft] = true
	}
}

// collect walks t, appending to found each struct type implementing enum.Enumerable
// by value or by pointer.
func collect(t reflect.Type, known, seen map[reflect.Type]bool, found *[]reflect.Type) {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct || seen[t] {
		return
	}
	seen[t] = true

	if t.Implements(enumerableType) || reflect.PointerTo(t).Implements(enumerableType) {
		if !known[t] {
			*found = append(*found, t)
		}
		return
	}

	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.IsExported() {
			collect(f.Type, known, seen, found)
		}
	}
}

// standIn is the validator custom type func swapping an enum.Enumerable struct for an enumerableField.
// A value only a pointer makes Enumerable is reached through its address,
// keeping the identity enum.Value checks.
func standIn(field reflect.Value) any {
	var e enum.Enumerable
	switch {
	case field.Type().Implements(enumerableType):
		e = field.Interface().(enum.Enumerable)
	case field.CanAddr():
		e = field.Addr().Interface().(enum.Enumerable)
	default:
		return enumerableField(func() enum.Enumerable { return nil })
	}

	return enumerableField(func() enum.Enumerable { return e })
}

// validateEnumerable validates whether field is a valid enum.Enumerable or a non-empty slice of them.
func validateEnumerable(fl v10.FieldLevel) bool {
	field := fl.Field()

	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		if field.Len() == 0 {
			return false
		}

		for i := 0; i < field.Len(); i++ {
			if !validEnumerable(field.Index(i)) {
				return false
			}
		}

		return true

	default:
		return validEnumerable(field)
	}
}

// validEnumerable asserts item holds an enum.Enumerable whose Valid reports no error.
func validEnumerable(item reflect.Value) bool {
	if !item.IsValid() || !item.CanInterface() {
		return false
	}

	switch e := item.Interface().(type) {
	case enumerableField:
		got := e()
		return got != nil && got.Valid() == nil
	case enum.Enumerable:
		return !isNil(item) && e.Valid() == nil
	default:
		if item.CanAddr() {
			if pe, ok := item.Addr().Interface().(enum.Enumerable); ok {
				return pe.Valid() == nil
			}
		}

		return false
	}
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
