package pokedex

import (
	perrors "github.com/matzehuels/pokeviz/pkg/errors"
)

// Validate checks every record of d. The first problem found is returned as
// an ErrCodeInvalidDataset error naming the offending position.
func Validate(d Dex) error {
	if len(d) == 0 {
		return perrors.New(perrors.ErrCodeInvalidDataset, "dataset is empty")
	}
	seen := make(map[int]string, len(d))
	for i, p := range d {
		if p.Name == "" {
			return perrors.New(perrors.ErrCodeInvalidDataset, "entry %d: missing name", i+1)
		}
		if n := len(p.Types); n < 1 || n > 2 {
			return perrors.New(perrors.ErrCodeInvalidDataset, "%s: want 1 or 2 types, got %d", p.Name, n)
		}
		for _, t := range p.Types {
			if err := perrors.ValidateTypeName(t); err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "%s", p.Name)
			}
		}
		if p.DualType() && p.Types[0] == p.Types[1] {
			return perrors.New(perrors.ErrCodeInvalidDataset, "%s: duplicate type %q", p.Name, p.Types[0])
		}
		if p.Index < 1 {
			return perrors.New(perrors.ErrCodeInvalidDataset, "%s: index must be positive, got %d", p.Name, p.Index)
		}
		if prev, dup := seen[p.Index]; dup {
			return perrors.New(perrors.ErrCodeInvalidDataset, "%s: index %d already used by %s", p.Name, p.Index, prev)
		}
		seen[p.Index] = p.Name
	}
	return nil
}
