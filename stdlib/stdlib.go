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
Package stdlib contains the registry of native procedures. A call whose
callee compiles to an immediate atom is dispatched by the abstract
machine to the native procedure registered under that atom name.
*/
package stdlib

import (
	"fmt"

	"github.com/krotik/common/sortutil"
)

/*
NativeProcedure describes a procedure which is implemented by the host
abstract machine.
*/
type NativeProcedure struct {
	Name      string // Atom name under which the procedure is called
	Arity     int    // Number of parameters
	DocString string // Descriptive text about this procedure
}

/*
String returns a string representation of this procedure.
*/
func (p *NativeProcedure) String() string {
	return fmt.Sprintf("%v/%v", p.Name, p.Arity)
}

/*
registry holds all known native procedures by atom name.
*/
var registry = map[string]*NativeProcedure{}

func init() {
	for _, p := range []*NativeProcedure{
		{"Show", 1, "Print a value to the standard output"},
		{"Browse", 1, "Display a value in the browser"},
		{"NewCell", 2, "Create a new mutable cell with an initial value"},
		{"IsDet", 2, "Check if a variable is bound to a value"},
		{"Wait", 1, "Suspend until a variable is bound to a value"},
	} {
		registry[p.Name] = p
	}
}

/*
RegisterNativeProcedure adds a new native procedure to the registry.
Registering an existing name replaces the previous entry.
*/
func RegisterNativeProcedure(name string, arity int, docString string) {
	registry[name] = &NativeProcedure{name, arity, docString}
}

/*
GetNativeProcedure looks up a native procedure by its atom name.
*/
func GetNativeProcedure(name string) (*NativeProcedure, bool) {
	p, ok := registry[name]
	return p, ok
}

/*
NativeProcedureNames returns the names of all registered native
procedures in alphabetical order.
*/
func NativeProcedureNames() []string {
	names := make([]interface{}, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sortutil.InterfaceStrings(names)

	ret := make([]string, len(names))
	for i, name := range names {
		ret[i] = name.(string)
	}

	return ret
}
