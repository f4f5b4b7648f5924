package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/repository"
)

// ScheduleForm is the admin submission for one new schedule entry. All eight
// fields are required.
type ScheduleForm struct {
	FacultyEmail      string `json:"facultyEmail"`
	FacultyName       string `json:"facultyName"`
	CourseCode        string `json:"courseCode"`
	ClassCode         string `json:"classCode"`
	CourseDescription string `json:"courseDescription"`
	ClassType         string `json:"classType"`
	Day               string `json:"day"`
	Time              string `json:"time"`
}

// ScheduleService maintains the faculty schedule directory: a flattened
// in-memory list of subjects with their parent faculty denormalized alongside.
type ScheduleService interface {
	Refresh() error
	Entries() []model.ScheduleEntry
	Create(form ScheduleForm, confirmed bool) error
	Remove(facultyEmail string, subjectID uint, confirmed bool) error
	SetClassType(facultyEmail string, subjectID uint, classType string) error
}

type scheduleService struct {
	scheduleRepo repository.ScheduleRepository

	mu      sync.RWMutex
	entries []model.ScheduleEntry
}

// NewScheduleService creates a new ScheduleService instance.
func NewScheduleService(scheduleRepo repository.ScheduleRepository) ScheduleService {
	return &scheduleService{scheduleRepo: scheduleRepo}
}

// Refresh performs the two-level fetch: enumerate faculty records, then each
// one's nested subjects, flattening into one list. This is an N+1 pattern;
// cost scales with faculty count. Acceptable because the data set is small and
// refresh is manually triggered, never polled.
func (s *scheduleService) Refresh() error {
	faculty, err := s.scheduleRepo.FindAllFaculty()
	if err != nil {
		return fmt.Errorf("failed to fetch faculty records: %w", err)
	}

	var entries []model.ScheduleEntry
	for _, f := range faculty {
		subjects, err := s.scheduleRepo.FindSubjectsByFaculty(f.Email)
		if err != nil {
			return fmt.Errorf("failed to fetch subjects for %s: %w", f.Email, err)
		}
		for _, sub := range subjects {
			entries = append(entries, model.ScheduleEntry{
				SubjectID:         sub.ID,
				FacultyEmail:      f.Email,
				FacultyName:       f.Name,
				CourseCode:        sub.CourseCode,
				ClassCode:         sub.ClassCode,
				CourseDescription: sub.CourseDescription,
				ClassType:         sub.ClassType,
				Day:               sub.Day,
				Time:              sub.Time,
				Availability:      model.AvailabilityFor(sub.ClassType),
			})
		}
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Entries returns the flattened directory from the last refresh.
func (s *scheduleService) Entries() []model.ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

// Create validates all eight fields, asks for confirmation, upserts the
// faculty record (merge, preserving its other subjects), appends one subject,
// then refreshes. The two writes are not transactional: a failure between
// them leaves a subject-less faculty record, which is tolerated.
func (s *scheduleService) Create(form ScheduleForm, confirmed bool) error {
	form.FacultyEmail = strings.TrimSpace(form.FacultyEmail)
	form.FacultyName = strings.TrimSpace(form.FacultyName)
	form.CourseCode = strings.TrimSpace(form.CourseCode)
	form.ClassCode = strings.TrimSpace(form.ClassCode)
	form.CourseDescription = strings.TrimSpace(form.CourseDescription)
	form.ClassType = strings.TrimSpace(form.ClassType)
	form.Day = strings.TrimSpace(form.Day)
	form.Time = strings.TrimSpace(form.Time)

	if form.FacultyEmail == "" || form.FacultyName == "" || form.CourseCode == "" ||
		form.ClassCode == "" || form.CourseDescription == "" || form.ClassType == "" ||
		form.Day == "" || form.Time == "" {
		return &ValidationError{Message: "please fill out all schedule fields"}
	}

	if !confirmed {
		return &ConfirmationRequiredError{
			Kind: "schedule.create",
			Prompt: fmt.Sprintf(
				"Add new Faculty Schedule?\n\nFaculty Email: %s\nFaculty Name: %s\nCourse Code: %s\nClass Code: %s\nDescription: %s\nClass Type: %s\nDay: %s\nTime: %s",
				form.FacultyEmail, form.FacultyName, form.CourseCode, form.ClassCode,
				form.CourseDescription, form.ClassType, form.Day, form.Time),
		}
	}

	if err := s.scheduleRepo.UpsertFaculty(&model.Faculty{
		Email: form.FacultyEmail,
		Name:  form.FacultyName,
	}); err != nil {
		return fmt.Errorf("failed to upsert faculty record: %w", err)
	}

	if err := s.scheduleRepo.CreateSubject(&model.Subject{
		FacultyEmail:      form.FacultyEmail,
		CourseCode:        form.CourseCode,
		ClassCode:         form.ClassCode,
		CourseDescription: form.CourseDescription,
		ClassType:         form.ClassType,
		Day:               form.Day,
		Time:              form.Time,
	}); err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}

	return s.Refresh()
}

// Remove deletes one nested subject after confirmation. The parent faculty
// record is kept even when it becomes childless.
func (s *scheduleService) Remove(facultyEmail string, subjectID uint, confirmed bool) error {
	if !confirmed {
		return &ConfirmationRequiredError{
			Kind:   "schedule.delete",
			Prompt: "Are you sure you want to delete this schedule?",
		}
	}

	if err := s.scheduleRepo.DeleteSubject(facultyEmail, subjectID); err != nil {
		return err
	}
	return s.Refresh()
}

// SetClassType updates only the classType field of the targeted subject. No
// confirmation step here: the result is reported after the fact, unlike the
// other mutations.
func (s *scheduleService) SetClassType(facultyEmail string, subjectID uint, classType string) error {
	classType = strings.TrimSpace(classType)
	if classType != model.ClassTypeFaceToFace && classType != model.ClassTypeOnline {
		return &ValidationError{Message: "class type must be Face-to-face or Online"}
	}

	if err := s.scheduleRepo.UpdateSubjectClassType(facultyEmail, subjectID, classType); err != nil {
		return err
	}
	return s.Refresh()
}
