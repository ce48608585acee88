//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the drm project using Mage.
//
// Usage:
//
//	mage build             Compile cmd/drm to bin/drm with the version stamped
//	mage test:all          Run all tests
//	mage test:unit         Run tests in short mode (skips binary tests)
//	mage test:integration  Build, then run the binary-level CLI tests
//	mage test:race         Run all tests with the race detector
//	mage lint              Check formatting, then run go vet and golangci-lint
//	mage redis:start       Start a local Redis for the redis backend
//	mage clean             Remove bin/
//	mage install           go install cmd/drm with the same ldflags
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

const (
	binGo     = "go"
	binaryDir = "bin"
	cmdDir    = "./cmd/drm"

	// versionVar is overwritten at link time; drm version and --version
	// report it.
	versionVar = "github.com/mesh-intelligence/drm/pkg/drm.Version"
)

// drmBinary is bin/drm, named after the command directory it is built from.
var drmBinary = filepath.Join(binaryDir, filepath.Base(cmdDir))

// ldflags strips debug info and stamps the version from git. Outside a git
// checkout the version compiled into pkg/drm is kept.
func ldflags() string {
	flags := []string{"-s", "-w"}
	if v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil && v != "" {
		flags = append(flags, "-X", versionVar+"="+strings.TrimPrefix(v, "v"))
	}
	return strings.Join(flags, " ")
}

// Build compiles cmd/drm to bin/drm.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-ldflags", ldflags(), "-o", drmBinary, cmdDir)
}

// Clean removes bin/.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Install installs drm into GOBIN with the same ldflags as Build.
func Install() error {
	return sh.RunV(binGo, "install", "-ldflags", ldflags(), cmdDir)
}
