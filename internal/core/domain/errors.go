package domain

import "github.com/SscSPs/avec_backend/internal/apperrors"

// Rule violations raised by entity methods. Each matches its apperrors kind with errors.Is.
var (
	ErrCycleAlreadyCompleted = apperrors.Wrap(apperrors.ErrInvalidTransition, "cycle is already completed")
	ErrUnknownPhase          = apperrors.Wrap(apperrors.ErrInvalidTransition, "cycle phase is not recognised")
	ErrGroupFull             = apperrors.Wrap(apperrors.ErrCapacityExceeded, "group cannot accept new members")
	ErrGroupEmpty            = apperrors.Wrap(apperrors.ErrNotAMember, "group has no members to remove")
	ErrNotPending            = apperrors.Wrap(apperrors.ErrInvalidTransition, "only pending transactions can be approved or rejected")
	ErrNotApproved           = apperrors.Wrap(apperrors.ErrInvalidTransition, "only approved transactions can be completed")
	ErrNonPositiveAmount     = apperrors.Wrap(apperrors.ErrValidation, "amount must be greater than zero")
	ErrNotShareMultiple      = apperrors.Wrap(apperrors.ErrValidation, "shares purchase amount must be a multiple of the share value")
	ErrInvalidShareValue     = apperrors.Wrap(apperrors.ErrValidation, "share value must be greater than zero")
	ErrCapacityBelowMembers  = apperrors.Wrap(apperrors.ErrValidation, "max members cannot be lower than current members")
	ErrModuleCompleted       = apperrors.Wrap(apperrors.ErrInvalidTransition, "formation module is already completed")
	ErrGroupClosed           = apperrors.Wrap(apperrors.ErrInvalidTransition, "group has closed its cycle")
	ErrNotInPreparation      = apperrors.Wrap(apperrors.ErrInvalidTransition, "community evaluations can only be attached to a cycle in preparation")
)
