package cli

import (
	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/digest"
)

// solutionRef treats a 64-character hex argument as an id, anything else
// as a name.
func solutionRef(arg string) domain.SolutionRef {
	if digest.Valid(arg) {
		return domain.SolutionRef{ID: arg}
	}
	return domain.SolutionRef{Name: arg}
}

// setRef treats a 64-character hex argument as an id, anything else as a name.
func setRef(arg string) domain.ParameterSetRef {
	if digest.Valid(arg) {
		return domain.ParameterSetRef{ID: arg}
	}
	return domain.ParameterSetRef{Name: arg}
}

func setRefs(args []string) []domain.ParameterSetRef {
	if len(args) == 0 {
		return nil
	}
	refs := make([]domain.ParameterSetRef, 0, len(args))
	for _, a := range args {
		refs = append(refs, setRef(a))
	}
	return refs
}

// shortID abbreviates an id for display.
func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
