package reconciler

import "errors"

var (
	ErrRollbackUnavailable = errors.New("rollback not available for this entry")
	ErrEntryNotOwned       = errors.New("update entry does not belong to this actor")
	ErrOperatorUnknown     = errors.New("operator is unknown")
)
