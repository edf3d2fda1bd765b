package entity

// Tag is a free-form label shared by any number of notes.
// Labels are not unique; deduplication happens at attach time.
type Tag struct {
	ID    int    `gorm:"primaryKey"`
	Label string `gorm:"not null;index"`
}

// String is a debug label for logs and tests.
func (t *Tag) String() string {
	return "Tag: " + t.Label
}
