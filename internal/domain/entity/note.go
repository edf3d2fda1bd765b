package entity

// Note is a user-authored note. Timestamps are UTC epoch millis.
//
// LastEdited is refreshed by the service on every edit and is always
// >= NoteDate. ReminderDate is nil when no reminder is scheduled;
// AlreadyReminded latches to true once the reminder fired and is only
// reset by scheduling a new reminder.
type Note struct {
	ID              int    `gorm:"primaryKey"`
	UserID          int    `gorm:"not null;index"` // References: users(id)
	Title           string `gorm:"not null;index"`
	Content         string `gorm:"not null"`
	NoteDate        int64  `gorm:"not null;index"`
	LastEdited      int64  `gorm:"not null;index;autoUpdateTime:false"`
	ReminderDate    *int64 `gorm:"index"`
	AlreadyReminded bool   `gorm:"not null;index;default:false"`

	// Relations
	Author User `gorm:"foreignKey:UserID;references:ID"`
}

// String is a debug label for logs and tests.
func (n *Note) String() string {
	return "Note: " + n.Content
}
