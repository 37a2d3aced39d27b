package model

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile reads an experience record from a TOML file
// Missing features are filled from the tier table
func LoadFile(path string) (*Experience, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experience file: %w", err)
	}

	var exp Experience
	if err := toml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidRecord, path, err)
	}

	if exp.Features.Tier == "" && exp.Tier != "" {
		features, err := FeaturesFor(exp.Tier)
		if err != nil {
			return nil, err
		}
		exp.Features = features
	}

	exp.SortPhotos()
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	return &exp, nil
}

// WriteFile stores an experience record as TOML
func WriteFile(path string, exp *Experience) error {
	data, err := toml.Marshal(exp)
	if err != nil {
		return fmt.Errorf("encode experience: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write experience file: %w", err)
	}
	return nil
}
