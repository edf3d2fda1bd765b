package repository

import (
	"errors"

	"noteweaver/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

func (d *DefaultNoteRepository) FindByID(id int) (*entity.Note, error) {
	var note entity.Note
	err := d.db.First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

// FindByUser returns the user's notes in insertion order. limit <= 0 means
// no limit.
func (d *DefaultNoteRepository) FindByUser(userID, limit, offset int) ([]*entity.Note, error) {
	var notes []*entity.Note
	q := d.db.Where("user_id = ?", userID).Order("id ASC")
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

func (d *DefaultNoteRepository) CountByUser(userID int) (int64, error) {
	var count int64
	err := d.db.Model(&entity.Note{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindDueReminders returns notes whose reminder is scheduled, due at or
// before now, and not yet delivered.
func (d *DefaultNoteRepository) FindDueReminders(now int64) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.
		Where("reminder_date IS NOT NULL AND reminder_date <= ? AND already_reminded = ?", now, false).
		Order("reminder_date ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// MarkReminded latches the already-reminded flag. It never flips it back.
func (d *DefaultNoteRepository) MarkReminded(noteID int) error {
	return d.db.Model(&entity.Note{}).
		Where("id = ?", noteID).
		Update("already_reminded", true).Error
}

func (d *DefaultNoteRepository) Save(note *entity.Note) error {
	return d.db.Save(note).Error
}

// Delete removes the note and its tag associations in one transaction.
// Tags referenced only by this note are left in place.
func (d *DefaultNoteRepository) Delete(note *entity.Note) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", note.ID).Delete(&entity.NoteTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(note).Error
	})
}
