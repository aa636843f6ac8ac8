/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GelvinBelson/gooz/bytecode"
	"github.com/GelvinBelson/gooz/store"
)

func TestParameterSymbols(t *testing.T) {
	env := NewEnvironment(nil, store.NewStore())

	assert.NoError(t, env.AddParameter("X"))
	assert.NoError(t, env.AddParameter("Y"))

	// Duplicate parameters are rejected

	assert.Error(t, env.AddParameter("X"))
	assert.Equal(t, 2, env.NumParameters())

	sym, err := env.Get("Y")
	assert.NoError(t, err)
	assert.Equal(t, ParameterSymbol, sym.Type)
	assert.Equal(t, bytecode.Register(bytecode.ParamRegister, 1), sym.Operand())
}

func TestLocalAllocatorScoping(t *testing.T) {
	env := NewEnvironment(nil, store.NewStore())

	outer := env.NewNestedLocalAllocator()

	symX, err := env.Define("X")
	assert.NoError(t, err)
	assert.Equal(t, LocalSymbol, symX.Type)
	assert.Equal(t, 0, symX.Index)

	// A nested scope allocates the following register interval

	inner := env.NewNestedLocalAllocator()

	symY, err := env.Define("Y")
	assert.NoError(t, err)
	assert.Equal(t, 1, symY.Index)

	// Symbols of both scopes are visible

	sym, err := env.Get("X")
	assert.NoError(t, err)
	assert.Equal(t, 0, sym.Index)

	// Releasing the inner scope frees its register interval

	inner.Release()

	assert.Equal(t, 2, env.NumLocals()) // High-water mark is kept

	again := env.NewNestedLocalAllocator()

	symZ, err := env.Define("Z")
	assert.NoError(t, err)
	assert.Equal(t, 1, symZ.Index) // Index of Y is reused

	again.Release()
	outer.Release()
}

func TestLockedAllocator(t *testing.T) {
	env := NewEnvironment(nil, store.NewStore())

	alloc := env.NewNestedLocalAllocator()

	_, err := env.Define("X")
	assert.NoError(t, err)

	alloc.Lock()

	// No new definitions in a locked scope

	_, err = env.Define("Y")
	assert.Error(t, err)

	// Lookup still works

	sym, err := env.Get("X")
	assert.NoError(t, err)
	assert.Equal(t, LocalSymbol, sym.Type)

	alloc.Release()
}

func TestLIFORelease(t *testing.T) {
	env := NewEnvironment(nil, store.NewStore())

	outer := env.NewNestedLocalAllocator()
	inner := env.NewNestedLocalAllocator()

	// Releasing out of order panics

	assert.Panics(t, func() {
		outer.Release()
	})

	inner.Release()
	outer.Release()

	// Releasing twice is a no-op

	outer.Release()
}

func TestClosureCapturePromotion(t *testing.T) {
	st := store.NewStore()

	top := NewEnvironment(nil, st)

	outer := NewEnvironment(top, st)
	assert.NoError(t, outer.AddParameter("X"))

	inner := NewEnvironment(outer, st)

	// A name found in an enclosing procedure is promoted to a capture

	sym, err := inner.Get("X")
	assert.NoError(t, err)
	assert.Equal(t, ClosureSymbol, sym.Type)
	assert.Equal(t, 0, sym.Index)
	assert.Equal(t, 1, inner.NumClosures())
	assert.Equal(t, []string{"X"}, inner.ClosureNames())

	// Repeated lookups return the same capture

	sym2, err := inner.Get("X")
	assert.NoError(t, err)
	assert.Equal(t, sym, sym2)
	assert.Equal(t, 1, inner.NumClosures())

	// A name which is only found at the top level stays a global

	gsym, err := inner.Get("G")
	assert.NoError(t, err)
	assert.Equal(t, GlobalSymbol, gsym.Type)
	assert.Equal(t, 1, inner.NumClosures()) // Still only one capture
}

func TestGlobalSymbols(t *testing.T) {
	st := store.NewStore()
	env := NewEnvironment(nil, st)

	// Unknown names at the top level become globals on first use

	sym, err := env.Get("X")
	assert.NoError(t, err)
	assert.Equal(t, GlobalSymbol, sym.Type)

	// The same name yields the same symbol

	sym2, err := env.Get("X")
	assert.NoError(t, err)
	assert.Equal(t, sym, sym2)

	// Global operands are immediate store variables

	op := sym.Operand()
	assert.Equal(t, bytecode.ImmediateOperand, op.Type)

	_, ok := op.Value.(*store.Variable)
	assert.True(t, ok)

	assert.True(t, env.ExistsGlobally("X"))
	assert.False(t, env.ExistsGlobally("Y"))
}

func TestScopedTemp(t *testing.T) {
	env := NewEnvironment(nil, store.NewStore())

	temp1 := NewScopedTemp(env)
	op1 := temp1.Allocate("Temp1")
	assert.Equal(t, bytecode.Register(bytecode.LocalRegister, 0), op1)

	temp2 := NewScopedTemp(env)
	op2 := temp2.Allocate("Temp2")
	assert.Equal(t, bytecode.Register(bytecode.LocalRegister, 1), op2)

	// Temps must be released in LIFO order

	assert.Panics(t, func() {
		temp1.Release()
	})

	temp2.Release()
	temp1.Release()

	// The high-water mark survives the release

	assert.Equal(t, 2, env.NumLocals())

	// An unallocated temp yields an invalid operand

	temp3 := NewScopedTemp(env)
	assert.True(t, temp3.Operand().IsInvalid())
	temp3.Release()
}
