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
	"bytes"
	"fmt"

	"github.com/krotik/common/errorutil"
	"github.com/krotik/common/sortutil"

	"github.com/GelvinBelson/gooz/bytecode"
	"github.com/GelvinBelson/gooz/store"
)

/*
SymbolType determines the storage kind of a symbol.
*/
type SymbolType int

/*
Available symbol storage kinds
*/
const (
	ParameterSymbol SymbolType = iota // Positional parameter register
	LocalSymbol                       // Local register
	ClosureSymbol                     // Captured register of an enclosing procedure
	GlobalSymbol                      // Top level value in the store
)

/*
Symbol binds a name to a storage location.
*/
type Symbol struct {
	Name   string      // Name of the symbol
	Type   SymbolType  // Storage kind of the symbol
	Index  int         // Register index (not used for globals)
	Global store.Value // Store variable backing a global symbol
}

/*
Operand returns the bytecode operand which references this symbol.
*/
func (s *Symbol) Operand() bytecode.Operand {
	switch s.Type {
	case ParameterSymbol:
		return bytecode.Register(bytecode.ParamRegister, s.Index)
	case LocalSymbol:
		return bytecode.Register(bytecode.LocalRegister, s.Index)
	case ClosureSymbol:
		return bytecode.Register(bytecode.ClosureRegister, s.Index)
	}
	return bytecode.Immediate(s.Global)
}

/*
Environment is the lexical environment of one procedure compilation unit.
Environments form a chain via a non-owning parent reference - the lifetime
of parents is guaranteed by the LIFO discipline of the compile visitor.
*/
type Environment struct {
	parent *Environment // Enclosing environment (nil for the top level)
	store  *store.Store // Store for global variable allocation

	params []string // Positional parameter names

	allocators []*NestedLocalAllocator // Stack of local scopes
	nextLocal  int                     // Next free local register index
	numLocals  int                     // High-water mark of local registers

	closures    []string           // Captured names in capture order
	closureSyms map[string]*Symbol // Captured symbols by name

	globals     map[string]*Symbol // Top level symbols (top level only)
	globalNames []string           // Top level names in definition order
}

/*
NewEnvironment creates a new environment with a given parent. The top
level environment has a nil parent.
*/
func NewEnvironment(parent *Environment, st *store.Store) *Environment {
	return &Environment{parent, st, nil, nil, 0, 0, nil,
		make(map[string]*Symbol), make(map[string]*Symbol), nil}
}

/*
AddParameter appends a new positional parameter. Fails if the name is
already bound to a parameter of this procedure.
*/
func (e *Environment) AddParameter(name string) error {
	for _, p := range e.params {
		if p == name {
			return fmt.Errorf("Parameter %v is already defined", name)
		}
	}

	e.params = append(e.params, name)
	return nil
}

/*
NewNestedLocalAllocator pushes a new local scope onto this environment.
The scope reserves an interval of local register indices which is released
when the scope is released.
*/
func (e *Environment) NewNestedLocalAllocator() *NestedLocalAllocator {
	alloc := &NestedLocalAllocator{e, e.nextLocal, false, false,
		make(map[string]*Symbol)}
	e.allocators = append(e.allocators, alloc)
	return alloc
}

/*
Define allocates a new symbol. Inside a local scope the symbol becomes a
local register of the innermost allocator, at the top level it becomes a
global backed by a fresh store variable.
*/
func (e *Environment) Define(name string) (*Symbol, error) {
	if len(e.allocators) > 0 {
		return e.allocators[len(e.allocators)-1].Define(name)
	}

	if e.parent == nil {
		return e.defineGlobal(name), nil
	}

	return nil, fmt.Errorf("Cannot define %v without a local scope", name)
}

/*
defineGlobal allocates a new top level symbol backed by a fresh unbound
store variable.
*/
func (e *Environment) defineGlobal(name string) *Symbol {
	sym := &Symbol{name, GlobalSymbol, 0, e.store.NewVariable(name)}
	e.globals[name] = sym
	e.globalNames = append(e.globalNames, name)
	return sym
}

/*
Get looks up a symbol by name. The search goes from the innermost scope of
this procedure outwards. A name which is found in an enclosing procedure
is promoted to a closure capture, a name which is only found at the top
level stays a global. Unknown names at the top level become new globals.
*/
func (e *Environment) Get(name string) (*Symbol, error) {

	// Parameters and local scopes of this procedure

	if sym := e.lookup(name); sym != nil {
		return sym, nil
	}

	// Top level - unknown names are defined on first use

	if e.parent == nil {
		if sym, ok := e.globals[name]; ok {
			return sym, nil
		}
		return e.defineGlobal(name), nil
	}

	// Search enclosing procedures

	sym, err := e.parent.Get(name)
	if err != nil {
		return nil, err
	}

	if sym.Type == GlobalSymbol {
		return sym, nil
	}

	// The name lives in an enclosing procedure - promote it to a capture

	capture := &Symbol{name, ClosureSymbol, len(e.closures), nil}
	e.closures = append(e.closures, name)
	e.closureSyms[name] = capture

	return capture, nil
}

/*
lookup searches a name within this procedure only.
*/
func (e *Environment) lookup(name string) *Symbol {
	for i, p := range e.params {
		if p == name {
			return &Symbol{name, ParameterSymbol, i, nil}
		}
	}

	// Locked allocators still permit lookup

	for i := len(e.allocators) - 1; i >= 0; i-- {
		if sym, ok := e.allocators[i].symbols[name]; ok {
			return sym
		}
	}

	if sym, ok := e.closureSyms[name]; ok {
		return sym
	}

	return nil
}

/*
ExistsGlobally checks if a name is visible from the current scope.
*/
func (e *Environment) ExistsGlobally(name string) bool {
	if e.lookup(name) != nil {
		return true
	}

	if e.parent == nil {
		_, ok := e.globals[name]
		return ok
	}

	return e.parent.ExistsGlobally(name)
}

/*
NumParameters returns the number of parameter registers.
*/
func (e *Environment) NumParameters() int {
	return len(e.params)
}

/*
NumLocals returns the number of local registers which a closure of this
environment needs.
*/
func (e *Environment) NumLocals() int {
	return e.numLocals
}

/*
NumClosures returns the number of closure registers.
*/
func (e *Environment) NumClosures() int {
	return len(e.closures)
}

/*
ClosureNames returns the captured names in capture order.
*/
func (e *Environment) ClosureNames() []string {
	return e.closures
}

/*
allocLocal reserves the next free local register index.
*/
func (e *Environment) allocLocal() int {
	idx := e.nextLocal
	e.nextLocal++

	if e.nextLocal > e.numLocals {
		e.numLocals = e.nextLocal
	}

	return idx
}

/*
String returns a string representation of this environment.
*/
func (e *Environment) String() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("environment (params:%v locals:%v closures:%v)\n",
		len(e.params), e.numLocals, len(e.closures)))

	for i, p := range e.params {
		buf.WriteString(fmt.Sprintf("  param %v: %v\n", i, p))
	}

	for i, c := range e.closures {
		buf.WriteString(fmt.Sprintf("  closure %v: %v\n", i, c))
	}

	globals := make([]interface{}, 0, len(e.globals))
	for name := range e.globals {
		globals = append(globals, name)
	}
	sortutil.InterfaceStrings(globals)

	for _, name := range globals {
		buf.WriteString(fmt.Sprintf("  global: %v\n", name))
	}

	return buf.String()
}

/*
NestedLocalAllocator is a nested lexical scope which reserves an interval
of local register indices. An allocator may be locked to forbid new
definitions while still permitting lookup. Allocators must be released in
LIFO order.
*/
type NestedLocalAllocator struct {
	env      *Environment       // Owning environment
	base     int                // First local register index of this scope
	locked   bool               // Flag if new definitions are forbidden
	released bool               // Flag if this scope has been released
	symbols  map[string]*Symbol // Symbols of this scope
}

/*
Define allocates a new local symbol in this scope.
*/
func (a *NestedLocalAllocator) Define(name string) (*Symbol, error) {
	if a.locked {
		return nil, fmt.Errorf("Cannot define %v in a locked scope", name)
	}

	if _, ok := a.symbols[name]; ok {
		return nil, fmt.Errorf("Symbol %v is already defined", name)
	}

	sym := &Symbol{name, LocalSymbol, a.env.allocLocal(), nil}
	a.symbols[name] = sym

	return sym, nil
}

/*
Lock forbids new definitions in this scope. Symbols of this scope stay
visible.
*/
func (a *NestedLocalAllocator) Lock() {
	a.locked = true
}

/*
Release removes this scope from its environment and releases its register
interval. Scopes must be released in LIFO order.
*/
func (a *NestedLocalAllocator) Release() {
	if a.released {
		return
	}

	allocators := a.env.allocators

	errorutil.AssertTrue(len(allocators) > 0 && allocators[len(allocators)-1] == a,
		"Local scopes must be released in LIFO order")

	a.env.allocators = allocators[:len(allocators)-1]
	a.env.nextLocal = a.base
	a.released = true
}

/*
ScopedTemp is a scoped one-shot temporary register allocation which is
released on scope exit.
*/
type ScopedTemp struct {
	env       *Environment // Owning environment
	name      string       // Purpose of the temporary register
	index     int          // Allocated register index
	allocated bool         // Flag if a register was allocated
	released  bool         // Flag if the register has been released
}

/*
NewScopedTemp creates a new scoped temporary register for a given
environment. No register is reserved until Allocate is called.
*/
func NewScopedTemp(env *Environment) *ScopedTemp {
	return &ScopedTemp{env, "", 0, false, false}
}

/*
Allocate reserves a local register and returns the operand which
references it.
*/
func (t *ScopedTemp) Allocate(name string) bytecode.Operand {
	errorutil.AssertTrue(!t.allocated, "Temporary register was already allocated")

	t.name = name
	t.index = t.env.allocLocal()
	t.allocated = true

	return t.Operand()
}

/*
Operand returns the operand which references the allocated register.
*/
func (t *ScopedTemp) Operand() bytecode.Operand {
	if !t.allocated {
		return bytecode.Invalid()
	}
	return bytecode.Register(bytecode.LocalRegister, t.index)
}

/*
Release releases the allocated register. Temporary registers must be
released in LIFO order.
*/
func (t *ScopedTemp) Release() {
	if !t.allocated || t.released {
		return
	}

	errorutil.AssertTrue(t.env.nextLocal == t.index+1,
		"Temporary registers must be released in LIFO order")

	t.env.nextLocal--
	t.released = true
}
