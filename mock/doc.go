// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package mock checks synthesized witness grids against their circuit
// shape, without proving anything.
//
// A Prover couples one compiled shape with one concrete run. Verify walks
// the grid row by row, evaluates every gate whose selector is active and
// every recorded copy constraint, and returns the complete list of
// violations as data; a satisfied run yields an empty list. The walk is
// exhaustive and its output deterministic, which makes the package the
// development-time oracle for circuit authors: compile, synthesize on
// concrete inputs, read the violations.
package mock
