/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package config

import (
	"testing"
)

func TestConfig(t *testing.T) {

	if res := Str(LogLevel); res != "info" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Bool(TraceParser); res {
		t.Error("Unexpected result:", res)
		return
	}

	Config[TraceParser] = "true"

	if res := Bool(TraceParser); !res {
		t.Error("Unexpected result:", res)
		return
	}

	Config[TraceParser] = DefaultConfig[TraceParser]

	Config["testvalue"] = 123

	if res := Int("testvalue"); res != 123 {
		t.Error("Unexpected result:", res)
		return
	}

	delete(Config, "testvalue")
}
