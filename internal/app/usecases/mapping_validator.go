package usecases

import (
	"fmt"
	"sort"

	"github.com/schemaflow/schemaflow/internal/app/dto"
	"github.com/schemaflow/schemaflow/internal/core/flow"
	"github.com/schemaflow/schemaflow/internal/core/mapping"
	"github.com/schemaflow/schemaflow/internal/core/schema"
)

// PruneSet filters a mapping set against a node's freshly propagated
// input schema, dropping rules that reference fields no longer present.
// It is purely a filter: it never invents replacement rules, so a pruned
// target field simply reverts to unmapped. The returned slice names the
// dropped target fields, sorted.
//
// Per-kind validity:
//   - direct (single): source must exist.
//   - direct (multi): missing members are dropped from the list; the rule
//     survives unless the list empties.
//   - concatenate: both sources must exist.
//   - split: the source must exist.
//   - expression: every referenced field must exist; all-or-nothing,
//     because partial evaluation is not well defined.
//   - constant: always valid.
func PruneSet(set mapping.Set, input schema.Schema) (mapping.Set, []string) {
	if len(set) == 0 {
		return set, nil
	}
	pruned := make(mapping.Set, len(set))
	var dropped []string
	for field, rule := range set {
		keep, replacement := validateRule(rule, input)
		if !keep {
			dropped = append(dropped, field)
			continue
		}
		pruned[field] = replacement
	}
	sort.Strings(dropped)
	return pruned, dropped
}

// validateRule reports whether the rule survives against the schema, and
// returns the (possibly narrowed) rule to keep.
func validateRule(rule mapping.Rule, input schema.Schema) (bool, mapping.Rule) {
	switch rule.Kind {
	case mapping.KindConstant:
		return true, rule
	case mapping.KindDirect:
		if !rule.IsMulti() {
			return input.Has(rule.Source), rule
		}
		var present []string
		for _, source := range rule.Sources {
			if input.Has(source) {
				present = append(present, source)
			}
		}
		if len(present) == 0 {
			return false, rule
		}
		rule.Sources = present
		return true, rule
	case mapping.KindConcatenate:
		if len(rule.Sources) != 2 {
			return false, rule
		}
		return input.Has(rule.Sources[0]) && input.Has(rule.Sources[1]), rule
	case mapping.KindSplit:
		return input.Has(rule.Source), rule
	case mapping.KindExpression:
		fields := rule.Fields()
		if len(fields) == 0 && rule.Validate() != nil {
			return false, rule
		}
		for _, field := range fields {
			if !input.Has(field) {
				return false, rule
			}
		}
		return true, rule
	default:
		return false, rule
	}
}

// PruneFlow applies PruneSet to every node's mapping sub-record using the
// given schema map, rewriting node configs in place. Each dropped rule is
// reported as a mapping_pruned issue so the host can surface an
// "unmapped field" indicator.
func PruneFlow(f *flow.Flow, schemas schema.Map) []dto.Issue {
	if f == nil {
		return nil
	}
	var issues []dto.Issue
	ids := make([]string, 0, len(f.Nodes))
	for id := range f.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := f.Nodes[id]
		raw, key, ok := node.MappingConfig()
		if !ok {
			continue
		}
		set, err := mapping.DecodeSet(raw)
		if err != nil || len(set) == 0 {
			continue
		}
		pruned, dropped := PruneSet(set, schemas.Input(id))
		// Narrowed multi-source rules change the set without dropping a
		// target field, so write back on any difference.
		if len(dropped) == 0 && pruned.Equal(set) {
			continue
		}
		node.Config[key] = pruned
		for _, field := range dropped {
			issues = append(issues, dto.Issue{
				NodeID:  id,
				Code:    dto.IssueMappingPruned,
				Message: fmt.Sprintf("mapping for %q referenced fields no longer in the input schema", field),
			})
		}
	}
	return issues
}
