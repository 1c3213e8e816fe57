// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package constraint

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/blang/semver/v4"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/plonkish"
	"github.com/consensys/plonkish/debug"
	"github.com/consensys/plonkish/internal/tinyfield"
	"github.com/consensys/plonkish/internal/utils"
	"github.com/consensys/plonkish/logger"
)

var (
	// ErrSelectorEquality is returned when a selector column is passed to
	// EnableEquality.
	ErrSelectorEquality = errors.New("equality constraints cannot involve selector columns")

	// ErrSelectorQuery is returned when a gate expression queries a selector
	// column; the selector is the gate's implicit multiplier, never an
	// operand.
	ErrSelectorQuery = errors.New("selector columns cannot be queried in gate expressions")

	// ErrUndeclaredColumn is returned when a column handle does not belong
	// to the system using it.
	ErrUndeclaredColumn = errors.New("column was not declared by this system")

	// ErrEmptyGate is returned when a gate builder produces no constraint.
	ErrEmptyGate = errors.New("gate carries no constraint expression")
)

// System is the shape of a circuit: its columns, its gates and which columns
// may participate in copy constraints. It is fixed by the configure phase
// (see frontend.Compile) and reused, read-only, across every witness for
// that computation; it may be shared between goroutines without
// synchronization once built.
type System struct {
	// serialization header
	PlonkishVersion string
	ScalarField     string

	// declared columns per kind; a Column handle is valid iff its index is
	// below the count for its kind
	NbAdvice   int
	NbInstance int
	NbSelector int

	// gates in registration order
	Gates []Gate

	// equality-enabled columns, a precondition for participating in copy
	// constraints
	EqualityAdvice   *bitset.BitSet
	EqualityInstance *bitset.BitSet

	// SymbolTable interns the gate declaration sites referenced by
	// Gate.Stack.
	SymbolTable debug.SymbolTable

	q      *big.Int `cbor:"-"`
	bitLen int      `cbor:"-"`
}

// NewSystem initializes a shape-under-construction over the given scalar
// field. capacity is a hint on the number of gates.
func NewSystem(scalarField *big.Int, capacity int) *System {
	return &System{
		PlonkishVersion:  plonkish.Version.String(),
		ScalarField:      scalarField.Text(16),
		SymbolTable:      debug.NewSymbolTable(),
		Gates:            make([]Gate, 0, capacity),
		EqualityAdvice:   bitset.New(0),
		EqualityInstance: bitset.New(0),
		q:                new(big.Int).Set(scalarField),
		bitLen:           scalarField.BitLen(),
	}
}

// AdviceColumn allocates a new advice column with the next free index.
func (system *System) AdviceColumn() Column {
	idx := system.NbAdvice
	system.NbAdvice++
	return Column{Kind: Advice, Index: idx}
}

// InstanceColumn allocates a new instance column with the next free index.
func (system *System) InstanceColumn() Column {
	idx := system.NbInstance
	system.NbInstance++
	return Column{Kind: Instance, Index: idx}
}

// SelectorColumn allocates a new selector column with the next free index.
func (system *System) SelectorColumn() Column {
	idx := system.NbSelector
	system.NbSelector++
	return Column{Kind: Selector, Index: idx}
}

// EnableEquality marks col as eligible for copy constraints. It fails on
// selector columns and on columns the system never declared.
func (system *System) EnableEquality(col Column) error {
	if col.Kind == Selector {
		return fmt.Errorf("%w: %s", ErrSelectorEquality, col.String())
	}
	if err := system.checkDeclared(col); err != nil {
		return err
	}
	switch col.Kind {
	case Advice:
		if system.EqualityAdvice == nil {
			system.EqualityAdvice = bitset.New(0)
		}
		system.EqualityAdvice.Set(uint(col.Index))
	case Instance:
		if system.EqualityInstance == nil {
			system.EqualityInstance = bitset.New(0)
		}
		system.EqualityInstance.Set(uint(col.Index))
	}
	return nil
}

// IsEqualityEnabled reports whether col may participate in copy constraints.
func (system *System) IsEqualityEnabled(col Column) bool {
	switch col.Kind {
	case Advice:
		return system.EqualityAdvice != nil && system.EqualityAdvice.Test(uint(col.Index))
	case Instance:
		return system.EqualityInstance != nil && system.EqualityInstance.Test(uint(col.Index))
	default:
		return false
	}
}

// CreateGate registers a named gate whose constraint expressions are
// produced by build. The builder may query any declared advice or instance
// column at any rotation; every expression is enforced to vanish at rows
// where selector is active.
//
// Registering a second gate under an existing name is permitted (names are
// diagnostic labels only) but logged as a warning.
func (system *System) CreateGate(name string, selector Column, build func(*VirtualCells) []Expression) error {
	if selector.Kind != Selector {
		return fmt.Errorf("gate %q: selector must be a selector column, got %s", name, selector.String())
	}
	if err := system.checkDeclared(selector); err != nil {
		return fmt.Errorf("gate %q: %w", name, err)
	}

	vc := &VirtualCells{system: system}
	constraints := build(vc)
	if len(constraints) == 0 {
		return fmt.Errorf("gate %q: %w", name, ErrEmptyGate)
	}

	var queries []Query
	for _, c := range constraints {
		if c == nil {
			return fmt.Errorf("gate %q: nil constraint expression", name)
		}
		queries = c.appendQueries(queries)
	}
	for _, q := range queries {
		if q.Column.Kind == Selector {
			return fmt.Errorf("gate %q: %w: %s", name, ErrSelectorQuery, q.Column.String())
		}
		if err := system.checkDeclared(q.Column); err != nil {
			return fmt.Errorf("gate %q: %w", name, err)
		}
	}

	for i := range system.Gates {
		if system.Gates[i].Name == name {
			log := logger.Logger()
			log.Warn().Str("gate", name).Msg("duplicate gate name; names are diagnostic labels only")
			break
		}
	}

	system.Gates = append(system.Gates, Gate{
		Name:        name,
		Selector:    selector,
		Constraints: constraints,
		Queries:     queries,
		Stack:       system.SymbolTable.CollectStack(),
	})
	return nil
}

// GetNbGates returns the number of registered gates.
func (system *System) GetNbGates() int {
	return len(system.Gates)
}

// Field returns a copy of the scalar field the system is defined over.
func (system *System) Field() *big.Int {
	return new(big.Int).Set(system.q)
}

// FieldBitLen returns the number of bits needed to represent a field element.
func (system *System) FieldBitLen() int {
	return system.bitLen
}

// DeclarationSite renders the call site recorded for g, one frame per line,
// using the system's symbol table.
func (system *System) DeclarationSite(g *Gate) string {
	var sbb strings.Builder
	for _, lID := range g.Stack {
		if lID >= len(system.SymbolTable.Locations) {
			break
		}
		loc := system.SymbolTable.Locations[lID]
		fn := system.SymbolTable.Functions[loc.FunctionID]
		sbb.WriteString(fn.Name)
		sbb.WriteString("\n\t")
		sbb.WriteString(fn.Filename)
		sbb.WriteByte(':')
		sbb.WriteString(strconv.Itoa(int(loc.Line)))
		sbb.WriteByte('\n')
	}
	return sbb.String()
}

// CheckSerializationHeader parses the scalar field and version headers.
//
// This is meant to be used at the deserialization step, and will error for
// illegal values.
func (system *System) CheckSerializationHeader() error {
	binaryVersion := plonkish.Version
	objectVersion, err := semver.Parse(system.PlonkishVersion)
	if err != nil {
		return fmt.Errorf("when parsing plonkish version: %w", err)
	}

	if binaryVersion.Compare(objectVersion) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", binaryVersion.String()).Str("object", objectVersion.String()).Msg("plonkish version (binary) mismatch with circuit shape. there are no guarantees on compatibility")
	}

	scalarField := new(big.Int)
	_, ok := scalarField.SetString(system.ScalarField, 16)
	if !ok {
		return fmt.Errorf("when parsing serialized modulus: %s", system.ScalarField)
	}
	curveID := utils.FieldToCurve(scalarField)
	if curveID == ecc.UNKNOWN && scalarField.Cmp(tinyfield.Modulus()) != 0 {
		return fmt.Errorf("unsupported scalar field %s", scalarField.Text(16))
	}
	system.q = new(big.Int).Set(scalarField)
	system.bitLen = system.q.BitLen()
	return nil
}

func (system *System) checkDeclared(col Column) error {
	var nb int
	switch col.Kind {
	case Advice:
		nb = system.NbAdvice
	case Instance:
		nb = system.NbInstance
	case Selector:
		nb = system.NbSelector
	default:
		return fmt.Errorf("%w: %s", ErrUndeclaredColumn, col.String())
	}
	if col.Index < 0 || col.Index >= nb {
		return fmt.Errorf("%w: %s", ErrUndeclaredColumn, col.String())
	}
	return nil
}
