package engine

import "github.com/ishibashi-futos/notepad-macos/internal/engine/coreerr"

// Errors returned by document operations are coreerr values; these
// helpers keep their contexts uniform.

func errLocked(op string) error {
	return coreerr.NewDomain(coreerr.KindInvalidState, "%s: document is locked by a save in progress", op)
}

func errReadOnly(op string) error {
	return coreerr.NewDomain(coreerr.KindInvalidState, "%s: document is read-only", op)
}

func errEmptySelection(op string) error {
	return coreerr.NewDomain(coreerr.KindEmptySelection, "%s requires a non-empty selection", op)
}

func errNotLocked(op string) error {
	return coreerr.NewDomain(coreerr.KindInvalidState, "%s: no save in progress", op)
}
