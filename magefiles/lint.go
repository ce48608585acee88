//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/sh"
)

// Lint fails on unformatted files, then runs go vet and golangci-lint over
// the drm packages.
func Lint() error {
	unformatted, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg", "magefiles")
	if err != nil {
		return err
	}
	if unformatted != "" {
		return fmt.Errorf("gofmt needed:\n%s", strings.TrimSpace(unformatted))
	}
	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}
