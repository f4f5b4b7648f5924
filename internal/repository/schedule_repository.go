package repository

import (
	"github.com/gamisaur/gccan/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleRepository defines persistence operations for faculty records and
// their nested subjects. Faculty upsert and subject insert are two independent
// writes with no transaction spanning them; a crash in between leaves an
// orphaned faculty row, which is tolerated.
type ScheduleRepository interface {
	UpsertFaculty(faculty *model.Faculty) error
	FindAllFaculty() ([]model.Faculty, error)
	FindSubjectsByFaculty(facultyEmail string) ([]model.Subject, error)
	CreateSubject(subject *model.Subject) error
	FindSubject(facultyEmail string, subjectID uint) (*model.Subject, error)
	UpdateSubjectClassType(facultyEmail string, subjectID uint, classType string) error
	DeleteSubject(facultyEmail string, subjectID uint) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository instance.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// UpsertFaculty creates the faculty row or merges the submitted name into the
// existing one. Only the name column is touched on conflict, so the record
// keeps everything else (merge semantics, not replace).
func (r *scheduleRepository) UpsertFaculty(faculty *model.Faculty) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(faculty).Error
}

// FindAllFaculty retrieves every faculty record.
func (r *scheduleRepository) FindAllFaculty() ([]model.Faculty, error) {
	var faculty []model.Faculty
	err := r.db.Find(&faculty).Error
	return faculty, err
}

// FindSubjectsByFaculty retrieves the subjects nested under one faculty.
func (r *scheduleRepository) FindSubjectsByFaculty(facultyEmail string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.Where("faculty_email = ?", facultyEmail).Find(&subjects).Error
	return subjects, err
}

// CreateSubject appends one subject under its parent faculty.
func (r *scheduleRepository) CreateSubject(subject *model.Subject) error {
	return r.db.Create(subject).Error
}

// FindSubject looks up one subject scoped to its parent faculty.
func (r *scheduleRepository) FindSubject(facultyEmail string, subjectID uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.Where("faculty_email = ? AND id = ?", facultyEmail, subjectID).First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// UpdateSubjectClassType mutates only the class_type column of the targeted
// subject. Sibling subjects and the parent faculty row are untouched.
func (r *scheduleRepository) UpdateSubjectClassType(facultyEmail string, subjectID uint, classType string) error {
	return r.db.Model(&model.Subject{}).
		Where("faculty_email = ? AND id = ?", facultyEmail, subjectID).
		Update("class_type", classType).Error
}

// DeleteSubject removes exactly one nested subject. The parent faculty record
// is never deleted here, even when it becomes childless.
func (r *scheduleRepository) DeleteSubject(facultyEmail string, subjectID uint) error {
	return r.db.Where("faculty_email = ? AND id = ?", facultyEmail, subjectID).
		Delete(&model.Subject{}).Error
}
