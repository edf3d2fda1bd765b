package service

import (
	"net/http"
	"time"

	"noteweaver/internal/contract"
	"noteweaver/internal/domain/entity"
	"noteweaver/internal/domain/policy"
	"noteweaver/internal/utils"
	"noteweaver/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type NoteRepository interface {
	FindByID(id int) (*entity.Note, error)
	FindByUser(userID, limit, offset int) ([]*entity.Note, error)
	CountByUser(userID int) (int64, error)
	FindDueReminders(now int64) ([]*entity.Note, error)
	MarkReminded(noteID int) error
	Save(note *entity.Note) error
	Delete(note *entity.Note) error
}

type TagRepository interface {
	FindOrCreateByLabel(label string) (*entity.Tag, error)
	FindByID(id int) (*entity.Tag, error)
	Attach(noteID, tagID int) error
	Detach(noteID, tagID int) error
	TagsByNote(noteID int) ([]*entity.Tag, error)
	NotesByTag(tagID, userID, limit, offset int) ([]*entity.Note, error)
}

type DefaultNoteService struct {
	NoteRepo   NoteRepository
	TagRepo    TagRepository
	NotePolicy *policy.NotePolicy
	Validate   *validator.Validate
}

func NewNoteService(noteRepo NoteRepository, tagRepo TagRepository, notePolicy *policy.NotePolicy, validate *validator.Validate) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo:   noteRepo,
		TagRepo:    tagRepo,
		NotePolicy: notePolicy,
		Validate:   validate,
	}
}

func (n *DefaultNoteService) CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	note := &entity.Note{
		UserID:     actor.ID,
		Title:      req.Title,
		Content:    req.Content,
		NoteDate:   now,
		LastEdited: now,
	}

	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}

	tags := make([]*entity.Tag, 0, len(req.Tags))
	for _, label := range req.Tags {
		tag, apierr := n.attachLabel(note.ID, label)
		if apierr != nil {
			return nil, apierr
		}
		tags = append(tags, tag)
	}
	return toNoteResponse(note, tags), nil
}

func (n *DefaultNoteService) GetNote(actor *entity.User, noteID int) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchViewable(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}

	tags, err := n.TagRepo.TagsByNote(note.ID)
	if err != nil {
		log.Errorf("failed to fetch tags for note %d: %v", note.ID, err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note, tags), nil
}

func (n *DefaultNoteService) ListNotes(actor *entity.User, limit, offset int) (*contract.NoteListResponse, apierror.ErrorResponse) {
	limit, offset = normalizePage(limit, offset)

	notes, err := n.NoteRepo.FindByUser(actor.ID, limit, offset)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	total, err := n.NoteRepo.CountByUser(actor.ID)
	if err != nil {
		log.Errorf("failed to count notes: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note, nil)
	}
	return &contract.NoteListResponse{
		Notes:  resp,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// UpdateNote patches title and content. Every successful edit refreshes
// last_edited, even when the new values equal the old ones.
func (n *DefaultNoteService) UpdateNote(actor *entity.User, noteID int, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}

	note.LastEdited = utils.NowUTC()
	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to update note: %v", err)
		return nil, apierror.InternalServerError
	}

	tags, err := n.TagRepo.TagsByNote(note.ID)
	if err != nil {
		log.Errorf("failed to fetch tags for note %d: %v", note.ID, err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note, tags), nil
}

func (n *DefaultNoteService) DeleteNote(actor *entity.User, noteID int) apierror.ErrorResponse {
	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return apierr
	}

	if err := n.NoteRepo.Delete(note); err != nil {
		log.Errorf("failed to delete note: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

// SetReminder schedules (or reschedules) the note's reminder and re-arms
// the delivery latch.
func (n *DefaultNoteService) SetReminder(actor *entity.User, noteID int, req *contract.ReminderRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	when, err := time.Parse(time.RFC3339, req.RemindAt)
	if err != nil {
		return nil, apierror.NewInvalidParamTypeError("remind_at", "RFC3339 timestamp")
	}

	if !when.After(time.Now()) {
		serr := apierror.NewStructured(http.StatusBadRequest)
		serr.Add("remind_at", "Value must be in the future")
		return nil, serr
	}

	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}

	millis := when.UTC().UnixMilli()
	note.ReminderDate = &millis
	note.AlreadyReminded = false
	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to schedule reminder: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note, nil), nil
}

func (n *DefaultNoteService) ClearReminder(actor *entity.User, noteID int) apierror.ErrorResponse {
	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return apierr
	}

	if note.ReminderDate == nil {
		return apierror.ReminderNotScheduledError
	}

	note.ReminderDate = nil
	note.AlreadyReminded = false
	if err := n.NoteRepo.Save(note); err != nil {
		log.Errorf("failed to clear reminder: %v", err)
		return apierror.InternalServerError
	}
	return nil
}

func (n *DefaultNoteService) AttachTag(actor *entity.User, noteID int, req *contract.TagRequest) (*contract.TagResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}

	tag, apierr := n.attachLabel(note.ID, req.Label)
	if apierr != nil {
		return nil, apierr
	}
	return &contract.TagResponse{ID: tag.ID, Label: tag.Label}, nil
}

// DetachTag removes the association only. The tag row stays even when no
// note references it anymore.
func (n *DefaultNoteService) DetachTag(actor *entity.User, noteID, tagID int) apierror.ErrorResponse {
	note, apierr := n.fetchOwned(actor, noteID)
	if apierr != nil {
		return apierr
	}

	tag, err := n.TagRepo.FindByID(tagID)
	if err != nil {
		log.Errorf("failed to fetch tag %d: %v", tagID, err)
		return apierror.InternalServerError
	}

	if tag == nil {
		return apierror.NotFoundError
	}

	if err := n.TagRepo.Detach(note.ID, tag.ID); err != nil {
		log.Errorf("failed to detach tag %d from note %d: %v", tagID, noteID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (n *DefaultNoteService) ListNoteTags(actor *entity.User, noteID int) ([]*contract.TagResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchViewable(actor, noteID)
	if apierr != nil {
		return nil, apierr
	}

	tags, err := n.TagRepo.TagsByNote(note.ID)
	if err != nil {
		log.Errorf("failed to fetch tags for note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.TagResponse, len(tags))
	for i, tag := range tags {
		resp[i] = &contract.TagResponse{ID: tag.ID, Label: tag.Label}
	}
	return resp, nil
}

// ListNotesByTag returns the actor's notes carrying the tag. Other users'
// notes under the same tag are never exposed and never consume page slots.
func (n *DefaultNoteService) ListNotesByTag(actor *entity.User, tagID, limit, offset int) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	limit, offset = normalizePage(limit, offset)

	tag, err := n.TagRepo.FindByID(tagID)
	if err != nil {
		log.Errorf("failed to fetch tag %d: %v", tagID, err)
		return nil, apierror.InternalServerError
	}

	if tag == nil {
		return nil, apierror.NotFoundError
	}

	notes, err := n.TagRepo.NotesByTag(tag.ID, actor.ID, limit, offset)
	if err != nil {
		log.Errorf("failed to fetch notes for tag %d: %v", tagID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note, nil)
	}
	return resp, nil
}

func (n *DefaultNoteService) fetchOwned(actor *entity.User, noteID int) (*entity.Note, apierror.ErrorResponse) {
	note, apierr := n.fetchNote(noteID)
	if apierr != nil {
		return nil, apierr
	}

	if perr := n.NotePolicy.CanModify(actor, note); perr != nil {
		return nil, perr
	}
	return note, nil
}

func (n *DefaultNoteService) fetchViewable(actor *entity.User, noteID int) (*entity.Note, apierror.ErrorResponse) {
	note, apierr := n.fetchNote(noteID)
	if apierr != nil {
		return nil, apierr
	}

	if perr := n.NotePolicy.CanView(actor, note); perr != nil {
		return nil, perr
	}
	return note, nil
}

func (n *DefaultNoteService) fetchNote(noteID int) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(noteID)
	if err != nil {
		log.Errorf("failed to fetch note %d: %v", noteID, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}
	return note, nil
}

func (n *DefaultNoteService) attachLabel(noteID int, label string) (*entity.Tag, apierror.ErrorResponse) {
	tag, err := n.TagRepo.FindOrCreateByLabel(label)
	if err != nil {
		log.Errorf("failed to resolve tag %q: %v", label, err)
		return nil, apierror.InternalServerError
	}

	if err := n.TagRepo.Attach(noteID, tag.ID); err != nil {
		log.Errorf("failed to attach tag %d to note %d: %v", tag.ID, noteID, err)
		return nil, apierror.InternalServerError
	}
	return tag, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = contract.DefaultPageSize
	}
	if limit > contract.MaxPageSize {
		limit = contract.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toNoteResponse(note *entity.Note, tags []*entity.Tag) *contract.NoteResponse {
	labels := make([]string, len(tags))
	for i, tag := range tags {
		labels[i] = tag.Label
	}

	var reminder *string
	if note.ReminderDate != nil {
		formatted := utils.FormatEpoch(*note.ReminderDate)
		reminder = &formatted
	}

	return &contract.NoteResponse{
		ID:              note.ID,
		UserID:          note.UserID,
		Title:           note.Title,
		Content:         note.Content,
		Tags:            labels,
		NoteDate:        utils.FormatEpoch(note.NoteDate),
		LastEdited:      utils.FormatEpoch(note.LastEdited),
		ReminderDate:    reminder,
		AlreadyReminded: note.AlreadyReminded,
	}
}
