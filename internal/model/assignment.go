package model

import "time"

// swagger:model Assignment
type Assignment struct {
	UUIDBase
	BatchID       uint       `gorm:"index;type:bigint unsigned;not null" json:"batchId"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Instructions  string     `gorm:"type:text" json:"instructions"`
	AttachmentURL string     `gorm:"size:500" json:"attachmentUrl"`
	DueAt         *time.Time `json:"dueAt,omitempty"`
	MaxMarks      int        `gorm:"default:100" json:"maxMarks"`
	IsPublished   bool       `gorm:"default:false" json:"isPublished"`
	CreatorID     uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// swagger:model AssignmentSubmission
type AssignmentSubmission struct {
	UUIDBase
	AssignmentID string     `gorm:"uniqueIndex:idx_assignment_student;type:varchar(36);not null" json:"assignmentId"`
	StudentID    uint       `gorm:"uniqueIndex:idx_assignment_student;type:bigint unsigned;not null" json:"studentId"`
	FileURL      string     `gorm:"size:500;not null" json:"fileUrl"`
	Note         string     `gorm:"size:500" json:"note"`
	SubmittedAt  time.Time  `json:"submittedAt"`
	Marks        *int       `json:"marks,omitempty"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	GraderID     *uint      `gorm:"type:bigint unsigned" json:"graderId,omitempty"`
	GradedAt     *time.Time `json:"gradedAt,omitempty"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
