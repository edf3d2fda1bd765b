package policy

import (
	"noteweaver/internal/domain/entity"
	"noteweaver/internal/utils/apierror"
)

// UserPolicy encapsulates all business rules for user manipulation.
// There are no roles or permission bits, accounts are self-managed only.
type UserPolicy struct{}

func NewUserPolicy() *UserPolicy {
	return &UserPolicy{}
}

// CanUpdateProfile checks if 'actor' can update mutable fields of 'target'.
func (p *UserPolicy) CanUpdateProfile(actor, target *entity.User) apierror.ErrorResponse {
	if actor.ID == target.ID {
		return nil
	}
	return apierror.NewForbiddenError("users can only modify their own profile")
}

// CanDeleteUser checks if 'actor' can delete the 'target' account.
func (p *UserPolicy) CanDeleteUser(actor, target *entity.User) apierror.ErrorResponse {
	if actor.ID == target.ID {
		return nil
	}
	return apierror.NewForbiddenError("users can only delete their own account")
}
