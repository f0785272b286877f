package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "pending"
	EnrollmentApproved EnrollmentStatus = "approved"
	EnrollmentRejected EnrollmentStatus = "rejected"
)

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	BatchID   uint             `gorm:"uniqueIndex:idx_batch_student;type:bigint unsigned;not null" json:"batchId"`
	StudentID uint             `gorm:"uniqueIndex:idx_batch_student;type:bigint unsigned;not null" json:"studentId"`
	Status    EnrollmentStatus `gorm:"type:enum('pending','approved','rejected');default:'pending';index" json:"status"`
	Message   string           `gorm:"size:500" json:"message"` // 学生申请留言
	DecidedBy *uint            `gorm:"type:bigint unsigned" json:"decidedBy,omitempty"`
	DecidedAt *time.Time       `json:"decidedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
