package contract

const (
	// DefaultPageSize caps unbounded listings.
	DefaultPageSize = 50
	MaxPageSize     = 200
)

type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=120"`
	Content string   `json:"content" validate:"required,min=1,max=50000"`
	Tags    []string `json:"tags" validate:"omitempty,max=16,nodupes,dive,min=1,max=80"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=120"`
	Content *string `json:"content" validate:"omitempty,min=1,max=50000"`
}

type ReminderRequest struct {
	// RFC3339; must be in the future.
	RemindAt string `json:"remind_at" validate:"required"`
}

type TagRequest struct {
	Label string `json:"label" validate:"required,min=1,max=80"`
}

type NoteResponse struct {
	ID              int      `json:"id"`
	UserID          int      `json:"user_id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Tags            []string `json:"tags"`
	NoteDate        string   `json:"note_date"`
	LastEdited      string   `json:"last_edited"`
	ReminderDate    *string  `json:"reminder_date,omitempty"`
	AlreadyReminded bool     `json:"already_reminded"`
}

type TagResponse struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type NoteListResponse struct {
	Notes  []*NoteResponse `json:"notes"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
