package repository

import (
	"errors"

	"noteweaver/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultTagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *DefaultTagRepository {
	return &DefaultTagRepository{db: db}
}

// FindOrCreateByLabel reuses an existing tag with the exact same label or
// creates one. Matching is case-sensitive: "Work" and "work" are two tags.
func (t *DefaultTagRepository) FindOrCreateByLabel(label string) (*entity.Tag, error) {
	var tag entity.Tag
	err := t.db.Where("label = ?", label).First(&tag).Error
	if err == nil {
		return &tag, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = entity.Tag{Label: label}
	if err := t.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (t *DefaultTagRepository) FindByID(id int) (*entity.Tag, error) {
	var tag entity.Tag
	err := t.db.First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Attach links a tag to a note. Attaching the same pair twice is a no-op,
// the composite primary key keeps the association unique.
func (t *DefaultTagRepository) Attach(noteID, tagID int) error {
	err := t.db.Create(&entity.NoteTag{NoteID: noteID, TagID: tagID}).Error
	if isUniqueViolation(err) {
		return nil
	}
	return err
}

func (t *DefaultTagRepository) Detach(noteID, tagID int) error {
	return t.db.
		Where("note_id = ? AND tag_id = ?", noteID, tagID).
		Delete(&entity.NoteTag{}).Error
}

// TagsByNote returns the note's tags ordered by tag id.
func (t *DefaultTagRepository) TagsByNote(noteID int) ([]*entity.Tag, error) {
	var tags []*entity.Tag
	err := t.db.
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id = ?", noteID).
		Order("tags.id ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// NotesByTag returns the user's notes carrying the tag, in insertion order.
// Filtering by author happens here so pagination counts only the user's own
// notes. limit <= 0 means no limit.
func (t *DefaultTagRepository) NotesByTag(tagID, userID, limit, offset int) ([]*entity.Note, error) {
	var notes []*entity.Note
	q := t.db.
		Joins("JOIN note_tags ON note_tags.note_id = notes.id").
		Where("note_tags.tag_id = ? AND notes.user_id = ?", tagID, userID).
		Order("notes.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	err := q.Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}
