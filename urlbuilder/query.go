package urlbuilder

import (
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Kind is the state of a query parameter's value slot.
type Kind int

const (
	// Absent means the parameter is not in the collection.
	Absent Kind = iota
	// Scalar is a single value, which may be nil.
	Scalar
	// List is an ordered list of values, from repeated names or appends.
	List
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case List:
		return "list"
	}
	return "absent"
}

// Value is the value slot of one query parameter.
// The zero Value is Absent.
type Value struct {
	kind   Kind
	values []any
}

func ScalarValue(v any) Value {
	return Value{kind: Scalar, values: []any{v}}
}

func ListValue(vs ...any) Value {
	return Value{kind: List, values: slices.Clone(vs)}
}

// newValue converts v into a value slot. Slices and arrays, other than []byte,
// become lists; everything else, strings included, is a scalar.
func newValue(v any) Value {
	switch v := v.(type) {
	case Value:
		return v
	case nil, string, []byte:
		return ScalarValue(v)
	case []any:
		return ListValue(v...)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return ScalarValue(v)
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return Value{kind: List, values: values}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Scalar returns the value of a Scalar slot, or the first value of a List.
func (v Value) Scalar() any {
	if len(v.values) == 0 {
		return nil
	}
	return v.values[0]
}

// Values returns every value in the slot, in order. A Scalar has one value.
func (v Value) Values() []any {
	return slices.Clone(v.values)
}

// Strings returns the string form of each value.
func (v Value) Strings() []string {
	s := make([]string, len(v.values))
	for i, value := range v.values {
		s[i] = toString(value)
	}
	return s
}

// String returns the string form of a Scalar. List values are joined with commas.
func (v Value) String() string {
	return strings.Join(v.Strings(), ",")
}

func (v Value) append(value any) Value {
	values := slices.Clone(v.values)
	if v.kind == Absent {
		values = nil
	}
	return Value{kind: List, values: append(values, newValue(value).values...)}
}

// QueryParams is an ordered collection of query string parameters. Names are
// case sensitive and unique; each holds one Value.
// The zero value is an empty collection ready to use.
type QueryParams struct {
	names  []string
	values map[string]Value
}

func NewQueryParams() *QueryParams {
	return &QueryParams{
		values: make(map[string]Value),
	}
}

// ParseQuery parses a query string, with or without its leading '?'.
// Repeated names are collected into a List in order of appearance, and a name
// with no '=' gets an empty value. Malformed input is never rejected.
func ParseQuery(query string) *QueryParams {
	q := NewQueryParams()
	query = strings.TrimPrefix(query, "?")
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		q.Append(DecodeQueryValue(name), DecodeQueryValue(value))
	}
	return q
}

// Set adds a parameter, replacing any existing value for name.
func (q *QueryParams) Set(name string, value any) *QueryParams {
	q.put(name, newValue(value))
	return q
}

// Append adds value to the parameter called name. If the parameter already
// exists, its value becomes a List holding the old values followed by the new one.
func (q *QueryParams) Append(name string, value any) *QueryParams {
	existing, ok := q.values[name]
	if !ok {
		return q.Set(name, value)
	}
	q.put(name, existing.append(value))
	return q
}

func (q *QueryParams) put(name string, v Value) {
	if q.values == nil {
		q.values = make(map[string]Value)
	}
	if _, ok := q.values[name]; !ok {
		q.names = append(q.names, name)
	}
	q.values[name] = v
}

// Get returns the value of name, which is Absent if the parameter is not set.
func (q *QueryParams) Get(name string) Value {
	return q.values[name]
}

func (q *QueryParams) Contains(name string) bool {
	_, ok := q.values[name]
	return ok
}

// Remove deletes the named parameters. Names that are not present are ignored.
func (q *QueryParams) Remove(names ...string) *QueryParams {
	for _, name := range names {
		if _, ok := q.values[name]; !ok {
			continue
		}
		delete(q.values, name)
		q.names = slices.DeleteFunc(q.names, func(n string) bool { return n == name })
	}
	return q
}

// Names returns the parameter names in insertion order.
func (q *QueryParams) Names() []string {
	return slices.Clone(q.names)
}

func (q *QueryParams) Len() int {
	return len(q.names)
}

// All iterates over the parameters in insertion order.
func (q *QueryParams) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range q.names {
			if !yield(name, q.values[name]) {
				return
			}
		}
	}
}

func (q *QueryParams) Clone() *QueryParams {
	c := NewQueryParams()
	for name, v := range q.All() {
		c.put(name, Value{kind: v.kind, values: slices.Clone(v.values)})
	}
	return c
}

// Encode serializes the parameters as "name=value" pairs joined by '&', in
// insertion order, with one pair per value of a List. Names and values are
// encoded with EncodeQueryValue.
func (q *QueryParams) Encode(encodeSpaceAsPlus bool) string {
	var sb strings.Builder
	for name, v := range q.All() {
		encodedName := EncodeQueryValue(name, encodeSpaceAsPlus)
		for _, value := range v.values {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(encodedName)
			sb.WriteByte('=')
			sb.WriteString(EncodeQueryValue(value, encodeSpaceAsPlus))
		}
	}
	return sb.String()
}

// String returns the query string with spaces encoded as %20.
func (q *QueryParams) String() string {
	return q.Encode(false)
}
