// Package testunit defines the test unit document handed over by the suite
// scheduler and the resolution of its declarative constraints into typed
// execution parameters.
package testunit

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error definitions
var (
	ErrMissingTestCase = errors.New("test unit has no testCase id")
)

// Constraint is a tagged key/value directive describing how to check out or
// run a test unit. The value type depends on the key, so it is kept raw until
// resolution.
type Constraint struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// TestCase identifies the test case a unit belongs to.
type TestCase struct {
	ID string `json:"id"`
}

// TestUnit is a single externally-defined unit of test execution.
// Immutable once received.
type TestUnit struct {
	ID          string       `json:"id"`
	TestCase    TestCase     `json:"testCase"`
	Constraints []Constraint `json:"constraints"`
}

// Decode parses a test unit document from JSON.
func Decode(data []byte) (*TestUnit, error) {
	var unit TestUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("failed to decode test unit: %w", err)
	}
	if unit.TestCase.ID == "" {
		return nil, ErrMissingTestCase
	}
	return &unit, nil
}
