package testunit

import "encoding/json"

// Constraint keys recognized by the resolver. Unknown keys are ignored.
const (
	KeyEnvironment = "ENVIRONMENT"
	KeyCommand     = "COMMAND"
	KeyExecute     = "EXECUTE"
	KeyParameters  = "PARAMETERS"
	KeyCheckout    = "CHECKOUT"
)

// Resolved holds the typed execution parameters extracted from a constraint
// list. Every field defaults to an empty container when its key is absent.
type Resolved struct {
	// Environment maps variable names to values exported before execution.
	Environment map[string]string
	// Command is the base test command handed to the executor entry point.
	Command string
	// Execute is the ordered list of pre-execution shell statements.
	Execute []string
	// Parameters maps command-line flags to values; an empty value renders
	// the flag as a bare token.
	Parameters map[string]string
	// Checkout is the ordered list of shell statements materializing the
	// test source into a working directory.
	Checkout []string
}

// ResolveConstraints extracts typed execution parameters from an unordered
// constraint list. No validation beyond key matching is performed; malformed
// values surface later as command-construction or execution failures.
// Duplicate keys resolve deterministically: the last constraint in slice
// order wins.
func ResolveConstraints(constraints []Constraint) Resolved {
	resolved := Resolved{
		Environment: map[string]string{},
		Execute:     []string{},
		Parameters:  map[string]string{},
		Checkout:    []string{},
	}
	for _, constraint := range constraints {
		switch constraint.Key {
		case KeyEnvironment:
			if env, ok := decodeMap(constraint.Value); ok {
				resolved.Environment = env
			}
		case KeyCommand:
			if cmd, ok := decodeString(constraint.Value); ok {
				resolved.Command = cmd
			}
		case KeyExecute:
			if steps, ok := decodeList(constraint.Value); ok {
				resolved.Execute = steps
			}
		case KeyParameters:
			if params, ok := decodeMap(constraint.Value); ok {
				resolved.Parameters = params
			}
		case KeyCheckout:
			if steps, ok := decodeList(constraint.Value); ok {
				resolved.Checkout = steps
			}
		}
	}
	return resolved
}

func decodeMap(raw json.RawMessage) (map[string]string, bool) {
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeList(raw json.RawMessage) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return nil, false
	}
	return list, true
}
