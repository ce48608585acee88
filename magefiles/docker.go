//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Redis container constants.
const (
	redisImage     = "redis:7-alpine"
	redisContainer = "drm-redis"
	redisPort      = "6379"
)

// Redis groups targets that manage a local Redis for the redis backend.
type Redis mg.Namespace

// containerRuntime returns "podman" or "docker" if a working runtime
// is available, or "" if neither is usable. It checks both that the
// binary exists on PATH and that it can connect to its daemon/machine.
func containerRuntime() string {
	for _, name := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if exec.Command(name, "info").Run() != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s found on PATH but not usable (is the daemon/machine running?)\n", name)
			continue
		}
		return name
	}
	return ""
}

func requireRuntime() (string, error) {
	rt := containerRuntime()
	if rt == "" {
		return "", errors.New("no usable container runtime (podman or docker)")
	}
	return rt, nil
}

// Start runs Redis on localhost:6379. Point drm at it with
// backend: redis and redis.addr: localhost:6379.
func (Redis) Start() error {
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	return sh.RunV(rt, "run", "-d", "--rm",
		"--name", redisContainer,
		"-p", redisPort+":"+redisPort,
		redisImage)
}

// Stop stops the Redis container started by redis:start.
func (Redis) Stop() error {
	rt, err := requireRuntime()
	if err != nil {
		return err
	}
	return sh.RunV(rt, "stop", redisContainer)
}
