//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets (all, unit, integration, race).
type Test mg.Namespace

// All runs every test, including the binary-level CLI tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs tests in short mode; binary-level CLI tests skip themselves.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Integration builds first, then runs the binary-level CLI tests.
func (Test) Integration() error {
	mg.Deps(Build)
	return sh.RunV(binGo, "test", "-v", cmdDir)
}

// Race runs all tests with the race detector. The ledger backends and the
// concurrent purchase tests are the main targets.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}
