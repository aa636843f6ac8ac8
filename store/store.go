/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package store contains the value store of the abstract machine. The
compiler allocates all literals and closures in a store and references
them as immediate operands in the emitted bytecode.
*/
package store

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/GelvinBelson/gooz/bytecode"
)

/*
ValueType represents the type of a store value.
*/
type ValueType int

/*
Available store value types
*/
const (
	IntegerType ValueType = iota
	AtomType
	StringType
	RealType
	ListType
	TupleType
	OpenRecordType
	ArrayType
	VariableType
	ClosureType
)

/*
Value models a single value in the store.
*/
type Value interface {

	/*
		Type returns the type of this value.
	*/
	Type() ValueType

	/*
		String returns a string representation of this value.
	*/
	String() string
}

/*
Store holds all allocated values of a compilation. Atoms are interned -
allocating the same atom name twice yields the same value.
*/
type Store struct {
	atoms      map[string]*Atom    // Interned atoms
	optimizers []func(Value) Value // Registered optimization hooks
}

/*
NewStore creates a new empty store.
*/
func NewStore() *Store {
	return &Store{make(map[string]*Atom), nil}
}

/*
Integer is an arbitrary precision integer value.
*/
type Integer struct {
	Val *big.Int
}

/*
Type returns the type of this value.
*/
func (v *Integer) Type() ValueType { return IntegerType }

/*
String returns a string representation of this value.
*/
func (v *Integer) String() string { return v.Val.String() }

/*
NewInteger allocates a new integer value.
*/
func (s *Store) NewInteger(val *big.Int) *Integer {
	return &Integer{new(big.Int).Set(val)}
}

/*
NewIntegerFromInt64 allocates a new integer value from a given int64.
*/
func (s *Store) NewIntegerFromInt64(val int64) *Integer {
	return &Integer{big.NewInt(val)}
}

/*
Atom is an interned symbolic constant.
*/
type Atom struct {
	Name string
}

/*
Type returns the type of this value.
*/
func (v *Atom) Type() ValueType { return AtomType }

/*
String returns a string representation of this value.
*/
func (v *Atom) String() string { return fmt.Sprintf("'%v'", v.Name) }

/*
NewAtom allocates a new atom value. Atoms are interned.
*/
func (s *Store) NewAtom(name string) *Atom {
	if atom, ok := s.atoms[name]; ok {
		return atom
	}

	atom := &Atom{name}
	s.atoms[name] = atom
	return atom
}

/*
String is a string value.
*/
type String struct {
	Val string
}

/*
Type returns the type of this value.
*/
func (v *String) Type() ValueType { return StringType }

/*
String returns a string representation of this value.
*/
func (v *String) String() string { return fmt.Sprintf("%q", v.Val) }

/*
NewString allocates a new string value.
*/
func (s *Store) NewString(val string) *String {
	return &String{val}
}

/*
Real is a real number value.
*/
type Real struct {
	Val float64
}

/*
Type returns the type of this value.
*/
func (v *Real) Type() ValueType { return RealType }

/*
String returns a string representation of this value.
*/
func (v *Real) String() string { return fmt.Sprint(v.Val) }

/*
NewReal allocates a new real number value.
*/
func (s *Store) NewReal(val float64) *Real {
	return &Real{val}
}

/*
List is a cons pair of two values.
*/
type List struct {
	Head Value
	Tail Value
}

/*
Type returns the type of this value.
*/
func (v *List) Type() ValueType { return ListType }

/*
String returns a string representation of this value.
*/
func (v *List) String() string {
	return fmt.Sprintf("%v|%v", v.Head, v.Tail)
}

/*
NewList allocates a new cons pair.
*/
func (s *Store) NewList(head Value, tail Value) *List {
	return &List{head, tail}
}

/*
Tuple is a labelled tuple with positional fields.
*/
type Tuple struct {
	Label  Value
	Fields []Value
}

/*
Type returns the type of this value.
*/
func (v *Tuple) Type() ValueType { return TupleType }

/*
String returns a string representation of this value.
*/
func (v *Tuple) String() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%v(", v.Label))
	for i, f := range v.Fields {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(f.String())
	}
	buf.WriteString(")")

	return buf.String()
}

/*
NewTuple allocates a new tuple value.
*/
func (s *Store) NewTuple(label Value, fields []Value) *Tuple {
	return &Tuple{label, fields}
}

/*
OpenRecord is a record under construction whose feature set may still
grow. GetRecord closes the record.
*/
type OpenRecord struct {
	Label    Value
	features map[string]Value
	order    []string
	closed   bool
}

/*
Type returns the type of this value.
*/
func (v *OpenRecord) Type() ValueType { return OpenRecordType }

/*
String returns a string representation of this value.
*/
func (v *OpenRecord) String() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%v(", v.Label))
	for i, feature := range v.order {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(fmt.Sprintf("%v:%v", feature, v.features[feature]))
	}
	if !v.closed {
		if len(v.order) > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("...")
	}
	buf.WriteString(")")

	return buf.String()
}

/*
Set sets a feature of this record. Setting a feature on a closed record
fails.
*/
func (v *OpenRecord) Set(feature string, val Value) bool {
	if v.closed {
		return false
	}

	if _, ok := v.features[feature]; !ok {
		v.order = append(v.order, feature)
	}
	v.features[feature] = val

	return true
}

/*
Get returns a feature of this record.
*/
func (v *OpenRecord) Get(feature string) (Value, bool) {
	val, ok := v.features[feature]
	return val, ok
}

/*
GetRecord closes this record so that its feature set cannot grow anymore.
*/
func (v *OpenRecord) GetRecord() *OpenRecord {
	v.closed = true
	return v
}

/*
NewOpenRecord allocates a new open record with a given label.
*/
func (s *Store) NewOpenRecord(label Value) *OpenRecord {
	return &OpenRecord{label, make(map[string]Value), nil, false}
}

/*
Array is a fixed size array of values.
*/
type Array struct {
	Values []Value
}

/*
Type returns the type of this value.
*/
func (v *Array) Type() ValueType { return ArrayType }

/*
String returns a string representation of this value.
*/
func (v *Array) String() string {
	var buf bytes.Buffer

	buf.WriteString("array[")
	for i, f := range v.Values {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(f.String())
	}
	buf.WriteString("]")

	return buf.String()
}

/*
NewArray allocates a new array with a given size. All slots hold the
given initial value.
*/
func (s *Store) NewArray(size int, init Value) *Array {
	values := make([]Value, size)
	for i := range values {
		values[i] = init
	}
	return &Array{values}
}

/*
Variable is an unbound logic variable.
*/
type Variable struct {
	Name  string
	Bound Value
}

/*
Type returns the type of this value.
*/
func (v *Variable) Type() ValueType { return VariableType }

/*
String returns a string representation of this value.
*/
func (v *Variable) String() string {
	if v.Bound != nil {
		return v.Bound.String()
	}
	if v.Name != "" {
		return fmt.Sprintf("_%v", v.Name)
	}
	return "_"
}

/*
NewVariable allocates a new unbound variable.
*/
func (s *Store) NewVariable(name string) *Variable {
	return &Variable{name, nil}
}

/*
Closure is an immutable value bundling a bytecode segment with the
register counts of its procedure.
*/
type Closure struct {
	Segment   *bytecode.Segment // Procedure body
	NParams   int               // Number of parameter registers
	NLocals   int               // Number of local registers
	NClosures int               // Number of closure registers
}

/*
Type returns the type of this value.
*/
func (v *Closure) Type() ValueType { return ClosureType }

/*
String returns a string representation of this value including a
disassembly of the procedure body.
*/
func (v *Closure) String() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("closure (params:%v locals:%v closures:%v)\n",
		v.NParams, v.NLocals, v.NClosures))
	buf.WriteString(v.Segment.String())

	return buf.String()
}

/*
NewClosure allocates a new closure value.
*/
func (s *Store) NewClosure(segment *bytecode.Segment, nparams int,
	nlocals int, nclosures int) *Closure {
	return &Closure{segment, nparams, nlocals, nclosures}
}

/*
RegisterOptimizer registers a new optimization hook which is applied by
Optimize.
*/
func (s *Store) RegisterOptimizer(optimizer func(Value) Value) {
	s.optimizers = append(s.optimizers, optimizer)
}

/*
Optimize runs all registered optimization hooks over a given value. The
compiler calls this after every closure construction.
*/
func (s *Store) Optimize(val Value) Value {
	for _, optimizer := range s.optimizers {
		val = optimizer(val)
	}
	return val
}
