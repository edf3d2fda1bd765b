package entity

// NoteTag joins a note to a tag. The composite primary key keeps the
// pair unique; rows are removed when the tag is detached or the note
// is deleted.
type NoteTag struct {
	NoteID int `gorm:"primaryKey;autoIncrement:false"`
	TagID  int `gorm:"primaryKey;autoIncrement:false"`

	// Relations
	Note Note `gorm:"foreignKey:NoteID;references:ID"`
	Tag  Tag  `gorm:"foreignKey:TagID;references:ID"`
}
