/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package store

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GelvinBelson/gooz/bytecode"
)

func TestAtomInterning(t *testing.T) {
	st := NewStore()

	a1 := st.NewAtom("foo")
	a2 := st.NewAtom("foo")
	a3 := st.NewAtom("bar")

	assert.True(t, a1 == a2)
	assert.False(t, a1 == a3)
	assert.Equal(t, "'foo'", a1.String())
	assert.Equal(t, AtomType, a1.Type())
}

func TestBasicValues(t *testing.T) {
	st := NewStore()

	i := st.NewInteger(big.NewInt(42))
	assert.Equal(t, "42", i.String())
	assert.Equal(t, IntegerType, i.Type())

	i2 := st.NewIntegerFromInt64(7)
	assert.Equal(t, "7", i2.String())

	r := st.NewReal(3.14)
	assert.Equal(t, "3.14", r.String())
	assert.Equal(t, RealType, r.Type())

	s := st.NewString("hello")
	assert.Equal(t, `"hello"`, s.String())
	assert.Equal(t, StringType, s.Type())

	v := st.NewVariable("X")
	assert.Equal(t, "_X", v.String())
	assert.Equal(t, VariableType, v.Type())

	v.Bound = i
	assert.Equal(t, "42", v.String())
}

func TestCompositeValues(t *testing.T) {
	st := NewStore()

	l := st.NewList(st.NewIntegerFromInt64(1), st.NewAtom("nil"))
	assert.Equal(t, "1|'nil'", l.String())
	assert.Equal(t, ListType, l.Type())

	tp := st.NewTuple(st.NewAtom("pair"),
		[]Value{st.NewIntegerFromInt64(1), st.NewIntegerFromInt64(2)})
	assert.Equal(t, "'pair'(1 2)", tp.String())
	assert.Equal(t, TupleType, tp.Type())

	arr := st.NewArray(2, st.NewAtom(""))
	assert.Equal(t, "array['' '']", arr.String())
	assert.Equal(t, ArrayType, arr.Type())
	assert.Equal(t, 2, len(arr.Values))
}

func TestOpenRecords(t *testing.T) {
	st := NewStore()

	rec := st.NewOpenRecord(st.NewAtom("person"))
	assert.Equal(t, OpenRecordType, rec.Type())

	assert.True(t, rec.Set("name", st.NewAtom("john")))
	assert.True(t, rec.Set("age", st.NewIntegerFromInt64(25)))

	assert.Equal(t, "'person'(name:'john' age:25 ...)", rec.String())

	val, ok := rec.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "'john'", val.String())

	// Closing the record forbids further features

	rec.GetRecord()
	assert.False(t, rec.Set("email", st.NewAtom("none")))
	assert.Equal(t, "'person'(name:'john' age:25)", rec.String())
}

func TestClosures(t *testing.T) {
	st := NewStore()

	seg := bytecode.NewSegment()
	seg.Append(bytecode.OpUnify,
		bytecode.Register(bytecode.ParamRegister, 0),
		bytecode.Register(bytecode.ParamRegister, 1))

	c := st.NewClosure(seg, 2, 0, 0)
	assert.Equal(t, ClosureType, c.Type())

	assert.Equal(t, `
closure (params:2 locals:0 closures:0)
  0 unify param:0 param:1
`[1:], c.String())
}

func TestOptimizeHook(t *testing.T) {
	st := NewStore()

	val := st.NewAtom("foo")

	// Without registered optimizers the value passes through

	assert.Equal(t, Value(val), st.Optimize(val))

	// Registered optimizers run in order

	st.RegisterOptimizer(func(v Value) Value {
		return st.NewAtom("bar")
	})

	assert.Equal(t, "'bar'", st.Optimize(val).String())
}
