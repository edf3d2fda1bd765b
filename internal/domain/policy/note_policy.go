package policy

import (
	"noteweaver/internal/domain/entity"
	"noteweaver/internal/utils/apierror"
)

// NotePolicy encapsulates the access rules for notes. Notes are strictly
// personal: only the author can read or change them.
// It returns apierror.ErrorResponse directly for seamless integration with handlers.
type NotePolicy struct{}

func NewNotePolicy() *NotePolicy {
	return &NotePolicy{}
}

// CanView checks if 'actor' may read 'note'.
func (p *NotePolicy) CanView(actor *entity.User, note *entity.Note) apierror.ErrorResponse {
	if actor.ID == note.UserID {
		return nil
	}
	// Hide the note's existence from other users
	return apierror.NotFoundError
}

// CanModify checks if 'actor' may edit, tag, schedule or delete 'note'.
func (p *NotePolicy) CanModify(actor *entity.User, note *entity.Note) apierror.ErrorResponse {
	if actor.ID == note.UserID {
		return nil
	}
	return apierror.NotFoundError
}
