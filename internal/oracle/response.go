package oracle

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"colorder/internal/matcher"
)

// noTarget marks a source header the oracle left unmatched.
const noTarget = -1

// ParseAssignments reads the oracle reply into a slice indexed by 0-based
// source position holding the 0-based canonical position, or -1. The reply
// uses the 1-based labels from the prompt. Source labels the reply omits are
// treated as unmatched.
func ParseAssignments(content string, sourceCount int, canonicalCount int) ([]int, error) {
	content = cleanJSONContent(content)

	if !gjson.Valid(content) {
		return nil, newError(InvalidResponse, nil, "reply is not valid JSON")
	}
	parsed := gjson.Parse(content)
	if !parsed.IsObject() {
		return nil, newError(InvalidResponse, nil, "reply is not a JSON object")
	}

	assignments := make([]int, sourceCount)
	seen := make([]bool, sourceCount)
	for i := range assignments {
		assignments[i] = noTarget
	}

	var failure *OracleError
	parsed.ForEach(func(key, value gjson.Result) bool {
		label, err := strconv.Atoi(strings.TrimSpace(key.String()))
		if err != nil {
			failure = newError(InvalidResponse, nil, "key %q is not a source number", key.String())
			return false
		}
		if label < 1 || label > sourceCount {
			failure = newError(IndexOutOfRange, nil, "source %d outside 1..%d", label, sourceCount)
			return false
		}
		if seen[label-1] {
			return true
		}
		seen[label-1] = true

		switch value.Type {
		case gjson.Null:
			return true
		case gjson.Number:
			if value.Num != math.Trunc(value.Num) {
				failure = newError(InvalidResponse, nil, "target for source %d is not a whole number", label)
				return false
			}
			if value.Num < 1 || value.Num > float64(canonicalCount) {
				failure = newError(IndexOutOfRange, nil, "target %s for source %d outside 1..%d", value.Raw, label, canonicalCount)
				return false
			}
			assignments[label-1] = int(value.Num) - 1
			return true
		default:
			failure = newError(InvalidResponse, nil, "target for source %d is %s, expected a number or null", label, value.Type)
			return false
		}
	})
	if failure != nil {
		return nil, failure
	}

	return assignments, nil
}

// Reconcile inverts per-source assignments into a canonical-to-source mapping.
// Each canonical column takes the first source, in source order, assigned to it.
func Reconcile(assignments []int, canonicalCount int) matcher.Mapping {
	mapping := matcher.NewMapping(canonicalCount)
	for c := range mapping {
		for s, target := range assignments {
			if target == c {
				mapping[c] = s
				break
			}
		}
	}
	return mapping
}

// cleanJSONContent strips markdown code fences and any chatter before the object.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") && len(content) >= 6 {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	if !strings.HasPrefix(content, "{") {
		if start := strings.Index(content, "{"); start > 0 {
			content = content[start:]
		}
	}

	return content
}
