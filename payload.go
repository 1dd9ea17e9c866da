package enum

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// maxPayloadDepth bounds how deeply nested a decoded payload may be.
const maxPayloadDepth = 256

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// A PayloadCodec converts payloads of type P to and from their canonical encoding.
// Two payloads are the same value exactly when their encodings are identical.
type PayloadCodec[P any] interface {
	EncodePayload(p P) (string, error)
	DecodePayload(s string) (P, error)
}

// reflectCodec is the PayloadCodec every Registry uses unless configured otherwise.
type reflectCodec[P any] struct{}

func (reflectCodec[P]) EncodePayload(p P) (string, error) { return MarshalPayload(p) }

func (reflectCodec[P]) DecodePayload(s string) (P, error) {
	var p P
	err := UnmarshalPayload(s, &p)
	return p, err
}

// MarshalPayload renders v in the canonical payload encoding:
//
//	N;                 nil
//	b:1;               bool
//	i:-42;             any integer
//	d:3.035;           any float, shortest form that round-trips
//	s:6:"Monday";      string, byte length first
//	a:2:{i:0;...i:1;...}  sequence, map or struct as ordered key/value pairs
//
// Map keys are sorted; struct fields keep declaration order, are named by an `enum` tag
// when one is set and skipped when tagged `enum:"-"`.
// Structs with other unexported fields have no canonical form.
// Values implementing encoding.TextMarshaler encode as strings.
//
// MarshalPayload returns ErrInvalidArgument for channels, functions, complex numbers
// and other values without a canonical form.
func MarshalPayload(v any) (string, error) {
	var b strings.Builder
	if err := encodeValue(&b, reflect.ValueOf(v)); err != nil {
		return "", err
	}

	return b.String(), nil
}

// UnmarshalPayload decodes s into the value dst points to.
//
// Decoding into an empty interface produces nil, bool, int64, float64, string,
// []any for sequences keyed 0 through n-1 and map[string]any otherwise.
func UnmarshalPayload(s string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: UnmarshalPayload requires a non-nil pointer, not %T", ErrInvalidArgument, dst)
	}

	p := payloadParser{s: s}
	n, err := p.parse(0)
	if err != nil {
		return err
	}

	if p.pos != len(s) {
		return fmt.Errorf("%w: trailing data at offset %d of payload", ErrInvalidArgument, p.pos)
	}

	return assign(rv.Elem(), n)
}

// NormalizePayload rewrites the encoded payload s without knowing its type,
// so that encodings decoding alike compare equal as strings.
// Integers and floats take their canonical form and the entries of every array
// are ordered by key, integer keys first.
//
// The result is a comparison key, not a canonical encoding:
// struct payloads come out with their fields sorted by name.
func NormalizePayload(s string) (string, error) {
	p := payloadParser{s: s}
	n, err := p.parse(0)
	if err != nil {
		return "", err
	}

	if p.pos != len(s) {
		return "", fmt.Errorf("%w: trailing data at offset %d of payload", ErrInvalidArgument, p.pos)
	}

	var b strings.Builder
	if err := writeNormal(&b, n); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeNormal(b *strings.Builder, n payloadNode) error {
	switch n.tag {
	case 'N':
		b.WriteString("N;")

	case 'b':
		b.WriteString("b:" + n.text + ";")

	case 'i':
		i, err := generic(n)
		if err != nil {
			return err
		}
		b.WriteString(fmt.Sprintf("i:%d;", i))

	case 'd':
		f, err := parseFloat(n.text, 64)
		if err != nil {
			return fmt.Errorf("%w: bad float %q", ErrInvalidArgument, n.text)
		}
		b.WriteString("d:" + canonFloat(f, 64) + ";")

	case 's':
		writeString(b, n.text)

	case 'a':
		entries := append([]payloadEntry(nil), n.entries...)
		sort.SliceStable(entries, func(i, j int) bool { return keyLess(entries[i].key, entries[j].key) })

		b.WriteString("a:" + strconv.Itoa(len(entries)) + ":{")
		for _, e := range entries {
			if err := writeNormal(b, e.key); err != nil {
				return err
			}
			if err := writeNormal(b, e.val); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	}

	return nil
}

// keyLess orders integer keys numerically ahead of string keys.
func keyLess(a, b payloadNode) bool {
	if a.tag != b.tag {
		return a.tag == 'i'
	}

	if a.tag == 'i' {
		x, errX := strconv.ParseInt(a.text, 10, 64)
		y, errY := strconv.ParseInt(b.text, 10, 64)
		if errX == nil && errY == nil {
			return x < y
		}
	}

	return a.text < b.text
}

func encodeValue(b *strings.Builder, v reflect.Value) error {
	if !v.IsValid() {
		b.WriteString("N;")
		return nil
	}

	if v.Type().Implements(textMarshalerType) {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil() {
			b.WriteString("N;")
			return nil
		}

		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return fmt.Errorf("%w: %T: %s", ErrInvalidArgument, v.Interface(), err)
		}

		writeString(b, string(text))
		return nil
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			b.WriteString("N;")
			return nil
		}

		return encodeValue(b, v.Elem())

	case reflect.Bool:
		if v.Bool() {
			b.WriteString("b:1;")
		} else {
			b.WriteString("b:0;")
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString("i:" + strconv.FormatInt(v.Int(), 10) + ";")

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString("i:" + strconv.FormatUint(v.Uint(), 10) + ";")

	case reflect.Float32:
		b.WriteString("d:" + canonFloat(v.Float(), 32) + ";")

	case reflect.Float64:
		b.WriteString("d:" + canonFloat(v.Float(), 64) + ";")

	case reflect.String:
		writeString(b, v.String())

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			writeString(b, string(v.Bytes()))
			return nil
		}
		return encodeSeq(b, v)

	case reflect.Array:
		return encodeSeq(b, v)

	case reflect.Map:
		return encodeMap(b, v)

	case reflect.Struct:
		return encodeStruct(b, v)

	default:
		return fmt.Errorf("%w: %s has no canonical encoding", ErrInvalidArgument, v.Type())
	}

	return nil
}

// canonFloat uses the shortest representation that round-trips,
// folding -0 into 0.
func canonFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case f == 0:
		return "0"
	}

	return strings.ReplaceAll(strconv.FormatFloat(f, 'g', -1, bits), "E", "e")
}

func writeString(b *strings.Builder, s string) {
	b.WriteString("s:")
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteString(`:"`)
	b.WriteString(s)
	b.WriteString(`";`)
}

func encodeSeq(b *strings.Builder, v reflect.Value) error {
	b.WriteString("a:" + strconv.Itoa(v.Len()) + ":{")
	for i := 0; i < v.Len(); i++ {
		b.WriteString("i:" + strconv.Itoa(i) + ";")
		if err := encodeValue(b, v.Index(i)); err != nil {
			return err
		}
	}
	b.WriteByte('}')

	return nil
}

func encodeMap(b *strings.Builder, v reflect.Value) error {
	keys := v.MapKeys()
	kt := v.Type().Key()
	switch kt.Kind() {
	case reflect.String:
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Int() < keys[j].Int() })

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		sort.Slice(keys, func(i, j int) bool { return keys[i].Uint() < keys[j].Uint() })

	default:
		return fmt.Errorf("%w: map key %s has no canonical encoding", ErrInvalidArgument, kt)
	}

	b.WriteString("a:" + strconv.Itoa(len(keys)) + ":{")
	for _, k := range keys {
		if err := encodeValue(b, k); err != nil {
			return err
		}

		if err := encodeValue(b, v.MapIndex(k)); err != nil {
			return err
		}
	}
	b.WriteByte('}')

	return nil
}

func encodeStruct(b *strings.Builder, v reflect.Value) error {
	fields, err := structFields(v.Type())
	if err != nil {
		return err
	}

	b.WriteString("a:" + strconv.Itoa(len(fields)) + ":{")
	for _, f := range fields {
		writeString(b, f.name)
		if err := encodeValue(b, v.Field(f.index)); err != nil {
			return err
		}
	}
	b.WriteByte('}')

	return nil
}

type structField struct {
	name  string
	index int
}

// structFields lists the fields of t taking part in its encoding.
// Fields tagged `enum:"-"` are left out; any other unexported field means t has no
// canonical encoding, since values differing only there would share one.
func structFields(t reflect.Type) ([]structField, error) {
	var out []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, tagged := f.Tag.Lookup("enum")
		if tag == "-" {
			continue
		}

		if !f.IsExported() {
			return nil, fmt.Errorf("%w: %s has unexported field %s and no canonical encoding", ErrInvalidArgument, t, f.Name)
		}

		name := f.Name
		if tagged && tag != "" {
			name = tag
		}

		out = append(out, structField{name: name, index: i})
	}

	return out, nil
}

// A payloadNode is one parsed element of an encoded payload.
// Scalars keep their raw text so conversion can depend on the destination.
type payloadNode struct {
	tag     byte
	text    string
	entries []payloadEntry
}

type payloadEntry struct {
	key payloadNode
	val payloadNode
}

type payloadParser struct {
	s   string
	pos int
}

func (p *payloadParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: payload offset %d: %s", ErrInvalidArgument, p.pos, fmt.Sprintf(format, args...))
}

func (p *payloadParser) expect(c byte) error {
	if p.pos >= len(p.s) || p.s[p.pos] != c {
		return p.errorf("expected %q", c)
	}
	p.pos++

	return nil
}

// until consumes up to the next c, returning what preceded it.
func (p *payloadParser) until(c byte) (string, error) {
	i := strings.IndexByte(p.s[p.pos:], c)
	if i < 0 {
		return "", p.errorf("unterminated element, expected %q", c)
	}

	out := p.s[p.pos : p.pos+i]
	p.pos += i + 1

	return out, nil
}

func (p *payloadParser) length() (int, error) {
	raw, err := p.until(':')
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, p.errorf("bad length %q", raw)
	}

	return n, nil
}

func (p *payloadParser) parse(depth int) (payloadNode, error) {
	if depth > maxPayloadDepth {
		return payloadNode{}, p.errorf("nested deeper than %d", maxPayloadDepth)
	}

	if p.pos >= len(p.s) {
		return payloadNode{}, p.errorf("unexpected end of payload")
	}

	tag := p.s[p.pos]
	p.pos++
	if tag == 'N' {
		return payloadNode{tag: tag}, p.expect(';')
	}

	if err := p.expect(':'); err != nil {
		return payloadNode{}, err
	}

	switch tag {
	case 'b':
		text, err := p.until(';')
		if err != nil {
			return payloadNode{}, err
		}

		if text != "0" && text != "1" {
			return payloadNode{}, p.errorf("bad bool %q", text)
		}

		return payloadNode{tag: tag, text: text}, nil

	case 'i':
		text, err := p.until(';')
		if err != nil {
			return payloadNode{}, err
		}

		digits := strings.TrimPrefix(text, "-")
		if digits == "" || strings.Trim(digits, "0123456789") != "" {
			return payloadNode{}, p.errorf("bad integer %q", text)
		}

		return payloadNode{tag: tag, text: text}, nil

	case 'd':
		text, err := p.until(';')
		if err != nil {
			return payloadNode{}, err
		}

		if _, err := parseFloat(text, 64); err != nil {
			return payloadNode{}, p.errorf("bad float %q", text)
		}

		return payloadNode{tag: tag, text: text}, nil

	case 's':
		n, err := p.length()
		if err != nil {
			return payloadNode{}, err
		}

		if err := p.expect('"'); err != nil {
			return payloadNode{}, err
		}

		if p.pos+n > len(p.s) {
			return payloadNode{}, p.errorf("string of %d bytes overruns payload", n)
		}

		text := p.s[p.pos : p.pos+n]
		p.pos += n
		if err := p.expect('"'); err != nil {
			return payloadNode{}, err
		}

		return payloadNode{tag: tag, text: text}, p.expect(';')

	case 'a':
		n, err := p.length()
		if err != nil {
			return payloadNode{}, err
		}

		if err := p.expect('{'); err != nil {
			return payloadNode{}, err
		}

		// NOTE: an entry takes at least six bytes ("i:0;N;"), a cheap bound against hostile lengths.
		if n > (len(p.s)-p.pos)/6 {
			return payloadNode{}, p.errorf("array of %d entries overruns payload", n)
		}

		node := payloadNode{tag: tag, entries: make([]payloadEntry, 0, n)}
		for i := 0; i < n; i++ {
			k, err := p.parse(depth + 1)
			if err != nil {
				return payloadNode{}, err
			}

			if k.tag != 'i' && k.tag != 's' {
				return payloadNode{}, p.errorf("array keys must be integers or strings")
			}

			v, err := p.parse(depth + 1)
			if err != nil {
				return payloadNode{}, err
			}

			node.entries = append(node.entries, payloadEntry{key: k, val: v})
		}

		return node, p.expect('}')

	default:
		return payloadNode{}, p.errorf("unknown tag %q", tag)
	}
}

func parseFloat(text string, bits int) (float64, error) {
	switch text {
	case "NAN":
		return math.NaN(), nil
	case "INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	}

	return strconv.ParseFloat(text, bits)
}

// isSeq asserts whether n's keys run 0 through len-1 in order.
func (n payloadNode) isSeq() bool {
	for i, e := range n.entries {
		if e.key.tag != 'i' || e.key.text != strconv.Itoa(i) {
			return false
		}
	}

	return true
}

func mismatch(dst reflect.Value, n payloadNode) error {
	return fmt.Errorf("%w: cannot decode %q element into %s", ErrInvalidArgument, n.tag, dst.Type())
}

// assign writes n into the settable dst.
func assign(dst reflect.Value, n payloadNode) error {
	if isText(dst.Type()) {
		switch n.tag {
		case 'N':
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		case 's':
			u := dst.Addr().Interface().(encoding.TextUnmarshaler)
			if err := u.UnmarshalText([]byte(n.text)); err != nil {
				return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, dst.Type(), err)
			}
			return nil
		default:
			return mismatch(dst, n)
		}
	}

	switch dst.Kind() {
	case reflect.Interface:
		if dst.NumMethod() != 0 {
			return fmt.Errorf("%w: cannot decode into non-empty interface %s", ErrInvalidArgument, dst.Type())
		}

		v, err := generic(n)
		if err != nil {
			return err
		}

		if v == nil {
			dst.Set(reflect.Zero(dst.Type()))
		} else {
			dst.Set(reflect.ValueOf(v))
		}

		return nil

	case reflect.Pointer:
		if n.tag == 'N' {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}

		elem := reflect.New(dst.Type().Elem())
		if err := assign(elem.Elem(), n); err != nil {
			return err
		}
		dst.Set(elem)

		return nil
	}

	if n.tag == 'N' {
		switch dst.Kind() {
		case reflect.Slice, reflect.Map:
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		default:
			return mismatch(dst, n)
		}
	}

	switch dst.Kind() {
	case reflect.Bool:
		if n.tag != 'b' {
			return mismatch(dst, n)
		}
		dst.SetBool(n.text == "1")

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n.tag != 'i' {
			return mismatch(dst, n)
		}

		i, err := strconv.ParseInt(n.text, 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %s overflows %s", ErrInvalidArgument, n.text, dst.Type())
		}
		dst.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n.tag != 'i' {
			return mismatch(dst, n)
		}

		u, err := strconv.ParseUint(n.text, 10, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %s overflows %s", ErrInvalidArgument, n.text, dst.Type())
		}
		dst.SetUint(u)

	case reflect.Float32, reflect.Float64:
		if n.tag != 'd' {
			return mismatch(dst, n)
		}

		f, err := parseFloat(n.text, dst.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %s overflows %s", ErrInvalidArgument, n.text, dst.Type())
		}
		dst.SetFloat(f)

	case reflect.String:
		if n.tag != 's' {
			return mismatch(dst, n)
		}
		dst.SetString(n.text)

	case reflect.Slice:
		if n.tag == 's' && dst.Type().Elem().Kind() == reflect.Uint8 {
			dst.SetBytes([]byte(n.text))
			return nil
		}

		if n.tag != 'a' || !n.isSeq() {
			return mismatch(dst, n)
		}

		s := reflect.MakeSlice(dst.Type(), len(n.entries), len(n.entries))
		for i, e := range n.entries {
			if err := assign(s.Index(i), e.val); err != nil {
				return err
			}
		}
		dst.Set(s)

	case reflect.Array:
		if n.tag != 'a' || !n.isSeq() || len(n.entries) != dst.Len() {
			return mismatch(dst, n)
		}

		for i, e := range n.entries {
			if err := assign(dst.Index(i), e.val); err != nil {
				return err
			}
		}

	case reflect.Map:
		if n.tag != 'a' {
			return mismatch(dst, n)
		}

		m := reflect.MakeMapWithSize(dst.Type(), len(n.entries))
		for _, e := range n.entries {
			k := reflect.New(dst.Type().Key()).Elem()
			if err := assign(k, e.key); err != nil {
				return err
			}

			v := reflect.New(dst.Type().Elem()).Elem()
			if err := assign(v, e.val); err != nil {
				return err
			}

			m.SetMapIndex(k, v)
		}
		dst.Set(m)

	case reflect.Struct:
		if n.tag != 'a' {
			return mismatch(dst, n)
		}

		fields, err := structFields(dst.Type())
		if err != nil {
			return err
		}

		byName := make(map[string]int)
		for _, f := range fields {
			byName[f.name] = f.index
		}

		for _, e := range n.entries {
			idx, ok := byName[e.key.text]
			if e.key.tag != 's' || !ok {
				return fmt.Errorf("%w: %s has no field %q", ErrInvalidArgument, dst.Type(), e.key.text)
			}

			if err := assign(dst.Field(idx), e.val); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w: %s has no canonical encoding", ErrInvalidArgument, dst.Type())
	}

	return nil
}

// isText asserts whether values of t encode through their text form,
// which requires both halves of the encoding.TextMarshaler pair.
func isText(t reflect.Type) bool {
	return t.Kind() != reflect.Pointer &&
		t.Kind() != reflect.Interface &&
		t.Implements(textMarshalerType) &&
		reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// generic converts n into the plain Go values an empty interface receives.
func generic(n payloadNode) (any, error) {
	switch n.tag {
	case 'N':
		return nil, nil

	case 'b':
		return n.text == "1", nil

	case 'i':
		if i, err := strconv.ParseInt(n.text, 10, 64); err == nil {
			return i, nil
		}

		u, err := strconv.ParseUint(n.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s overflows 64 bits", ErrInvalidArgument, n.text)
		}
		return u, nil

	case 'd':
		return parseFloat(n.text, 64)

	case 's':
		return n.text, nil
	}

	if n.isSeq() {
		out := make([]any, len(n.entries))
		for i, e := range n.entries {
			v, err := generic(e.val)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}

		return out, nil
	}

	out := make(map[string]any, len(n.entries))
	for _, e := range n.entries {
		v, err := generic(e.val)
		if err != nil {
			return nil, err
		}
		out[e.key.text] = v
	}

	return out, nil
}

// hasReferences asserts whether values of t share memory when copied,
// meaning a stored payload must be isolated from its caller.
func hasReferences(t reflect.Type) bool {
	return refs(t, make(map[reflect.Type]bool))
}

func refs(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true

	case reflect.Array:
		return refs(t.Elem(), seen)

	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if refs(t.Field(i).Type, seen) {
				return true
			}
		}
	}

	return false
}

// clonePayload copies p so that no pointer, slice, map or interface reachable through its
// exported fields is shared with the original. Dynamic types behind interfaces are kept.
func clonePayload[P any](p P) P {
	var out P
	reflect.ValueOf(&out).Elem().Set(cloneValue(reflect.ValueOf(&p).Elem()))

	return out
}

func cloneValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}

		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneValue(v.Elem()))
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}

		out := reflect.New(v.Type()).Elem()
		out.Set(cloneValue(v.Elem()))
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}

		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}

		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(cloneValue(iter.Key()), cloneValue(iter.Value()))
		}
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				out.Field(i).Set(cloneValue(v.Field(i)))
			}
		}
		return out

	default:
		return v
	}
}
