package challenges

import (
	"encoding/json"
	"errors"
	"fmt"

	"moveit/internal/core/model"
)

// ErrEmptyCatalog indicates a catalog without entries.
var ErrEmptyCatalog = errors.New("challenge catalog is empty")

// Catalog is the static, ordered list of challenges.
type Catalog []model.Challenge

// ParseCatalog decodes and validates a JSON catalog.
func ParseCatalog(raw []byte) (Catalog, error) {
	var catalog Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse challenge catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Validate checks every entry of the catalog.
func (catalog Catalog) Validate() error {
	if len(catalog) == 0 {
		return ErrEmptyCatalog
	}
	for index, challenge := range catalog {
		if challenge.Type != model.ChallengeBody && challenge.Type != model.ChallengeEye {
			return fmt.Errorf("challenge %d: unknown type %q", index, challenge.Type)
		}
		if challenge.Amount <= 0 {
			return fmt.Errorf("challenge %d: amount must be positive, got %d", index, challenge.Amount)
		}
		if challenge.Description == "" {
			return fmt.Errorf("challenge %d: description is empty", index)
		}
	}
	return nil
}
