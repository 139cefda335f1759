// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import "github.com/magefile/mage/sh"

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// TestRace runs all tests with the race detector. The session provider and
// the library backend are both shared across goroutines.
func TestRace() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}
