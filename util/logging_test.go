/*
 * gooz - Oz language compiler core
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevelLogger(t *testing.T) {

	ml := NewMemoryLogger(10)

	logger, err := NewLogLevelLogger(ml, "info")
	if err != nil {
		t.Error(err)
		return
	}

	if logger.Level() != Info {
		t.Error("Unexpected level:", logger.Level())
		return
	}

	logger.LogDebug("dropped")
	logger.LogInfo("kept info")
	logger.LogError("kept error")

	if res := strings.Join(ml.Slice(), ";"); res != "kept info;error: kept error" {
		t.Error("Unexpected log:", res)
		return
	}

	ml.Reset()

	if ml.Size() != 0 {
		t.Error("Unexpected size:", ml.Size())
		return
	}

	// Debug level lets everything through

	logger, _ = NewLogLevelLogger(ml, "debug")

	logger.LogDebug("kept")

	if res := strings.Join(ml.Slice(), ";"); res != "debug: kept" {
		t.Error("Unexpected log:", res)
		return
	}

	// Invalid levels are rejected

	if _, err := NewLogLevelLogger(ml, "foo"); err == nil || err.Error() !=
		"Invalid log level: foo" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestBufferLogger(t *testing.T) {

	var buf bytes.Buffer

	logger := NewBufferLogger(&buf)

	logger.LogInfo("test1")
	logger.LogError("test2")
	logger.LogDebug("test3")

	if buf.String() != "test1\nerror: test2\ndebug: test3\n" {
		t.Error("Unexpected buffer:", buf.String())
		return
	}
}

func TestNullLogger(t *testing.T) {

	logger := NewNullLogger()

	// Messages are discarded

	logger.LogInfo("test1")
	logger.LogError("test2")
	logger.LogDebug("test3")
}
