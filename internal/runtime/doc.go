// SPDX-License-Identifier: MPL-2.0

// Package runtime turns a resolved title configuration into a running process.
//
// A launch is split in two. Prepare selects the executable target and wrapper
// chain for the title's compatibility type and composes the child environment
// into a Plan; Run spawns the Plan and waits for it. Prepare never starts a
// process, so every configuration failure surfaces before anything runs.
//
// Environment composition is handled by EnvBuilder. See env_builder.go for the
// order in which inherited and configured values are applied.
package runtime
