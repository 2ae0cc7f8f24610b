package services

import (
	"errors"
	"fmt"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// ValidationResult contains the results of catalog validation
type ValidationResult struct {
	InvalidEdges      []entities.ComponentEdge
	DuplicateEdges    []entities.ComponentEdge
	DuplicateProducts []string
	Errors            []string
}

// Valid reports whether no problem was found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err folds the findings into a single error, nil when valid
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, msg := range r.Errors {
		errs = append(errs, errors.New(msg))
	}
	return errors.Join(errs...)
}

// ValidateEdges checks each edge's own invariants and flags duplicate lines.
// Cycles are left to AssignLevels, which reports the cycle path.
func ValidateEdges(edges []entities.ComponentEdge) *ValidationResult {
	result := &ValidationResult{
		InvalidEdges:   make([]entities.ComponentEdge, 0),
		DuplicateEdges: make([]entities.ComponentEdge, 0),
		Errors:         make([]string, 0),
	}

	for _, edge := range edges {
		if err := edge.Validate(); err != nil {
			result.InvalidEdges = append(result.InvalidEdges, edge)
			result.Errors = append(result.Errors, fmt.Sprintf("edge %s -> %s: %v", edge.ParentID, edge.ChildID, err))
		}
	}

	duplicates := detectDuplicateEdges(edges)
	result.DuplicateEdges = duplicates
	if len(duplicates) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("found %d duplicate component edges", len(duplicates)))
	}

	return result
}

// detectDuplicateEdges finds edges with the same parent, child and effective-from date
func detectDuplicateEdges(edges []entities.ComponentEdge) []entities.ComponentEdge {
	seen := make(map[string]bool)
	duplicates := make([]entities.ComponentEdge, 0)

	for _, edge := range edges {
		key := fmt.Sprintf("%s|%s|%s", edge.ParentID, edge.ChildID, edge.EffectiveFrom.Format(entities.DateLayout))
		if seen[key] {
			duplicates = append(duplicates, edge)
			continue
		}
		seen[key] = true
	}

	return duplicates
}

// ValidateProductUniqueness validates that product ids are unique within a catalog
func ValidateProductUniqueness(products []*entities.Product) *ValidationResult {
	result := &ValidationResult{
		Errors: make([]string, 0),
	}

	seen := make(map[string]bool)
	for _, product := range products {
		if seen[product.ID] {
			result.DuplicateProducts = append(result.DuplicateProducts, product.ID)
		} else {
			seen[product.ID] = true
		}
	}

	if len(result.DuplicateProducts) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("duplicate product ids found: %v", result.DuplicateProducts))
	}

	return result
}
