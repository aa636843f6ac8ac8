/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package stdlib

import (
	"fmt"
	"testing"
)

func TestNativeProcedureRegistry(t *testing.T) {

	p, ok := GetNativeProcedure("Show")
	if !ok || p.Arity != 1 {
		t.Error("Unexpected result:", p, ok)
		return
	}

	if p.String() != "Show/1" {
		t.Error("Unexpected result:", p.String())
		return
	}

	if _, ok := GetNativeProcedure("DoesNotExist"); ok {
		t.Error("Unexpected result: procedure should not exist")
		return
	}

	// Names are listed in alphabetical order

	if res := fmt.Sprint(NativeProcedureNames()); res !=
		"[Browse IsDet NewCell Show Wait]" {
		t.Error("Unexpected result:", res)
		return
	}

	// New procedures can be registered

	RegisterNativeProcedure("Test", 3, "A test procedure")

	p, ok = GetNativeProcedure("Test")
	if !ok || p.Arity != 3 || p.DocString != "A test procedure" {
		t.Error("Unexpected result:", p, ok)
		return
	}

	delete(registry, "Test")
}
