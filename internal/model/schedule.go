package model

import "time"

// Class type values a subject can carry. The value only drives the derived
// availability label; it never locks out the owning faculty record.
const (
	ClassTypeFaceToFace = "Face-to-face"
	ClassTypeOnline     = "Online"
)

// Availability labels derived from a subject's class type.
const (
	AvailabilityAvailable    = "Available"
	AvailabilityNotAvailable = "Not Available"
)

// Faculty corresponds to the 'faculties' table. The email is the record's
// identifier; the row is upserted with merge semantics every time a schedule
// entry is added for that email, so Name always reflects the latest submission.
type Faculty struct {
	Email     string    `gorm:"type:varchar(255);primaryKey" json:"facultyEmail"`
	Name      string    `gorm:"type:varchar(255);not null" json:"facultyName"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table backing this model.
func (Faculty) TableName() string {
	return "faculties"
}

// Subject corresponds to the 'subjects' table: one course/class entry nested
// under its parent faculty record.
type Subject struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FacultyEmail      string    `gorm:"type:varchar(255);not null;index" json:"facultyEmail"`
	CourseCode        string    `gorm:"type:varchar(50);not null" json:"courseCode"`
	ClassCode         string    `gorm:"type:varchar(50);not null" json:"classCode"`
	CourseDescription string    `gorm:"type:varchar(255);not null" json:"courseDescription"`
	ClassType         string    `gorm:"type:varchar(20);not null" json:"classType"`
	Day               string    `gorm:"type:varchar(20);not null" json:"day"`
	Time              string    `gorm:"type:varchar(50);not null" json:"time"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table backing this model.
func (Subject) TableName() string {
	return "subjects"
}

// ScheduleEntry is one flattened row of the schedule directory: a subject with
// its parent faculty's email and name denormalized alongside.
type ScheduleEntry struct {
	SubjectID         uint   `json:"id"`
	FacultyEmail      string `json:"facultyEmail"`
	FacultyName       string `json:"facultyName"`
	CourseCode        string `json:"courseCode"`
	ClassCode         string `json:"classCode"`
	CourseDescription string `json:"courseDescription"`
	ClassType         string `json:"classType"`
	Day               string `json:"day"`
	Time              string `json:"time"`
	Availability      string `json:"availability"`
}

// AvailabilityFor derives the advisory availability label from a class type.
func AvailabilityFor(classType string) string {
	if classType == ClassTypeFaceToFace {
		return AvailabilityAvailable
	}
	return AvailabilityNotAvailable
}
