package model

import "time"

// ExamSubmission pdf 类型考试的文件提交，一人一份，重复提交覆盖文件与时间
// swagger:model ExamSubmission
type ExamSubmission struct {
	UUIDBase
	ExamID      string     `gorm:"uniqueIndex:idx_exam_submission_student;type:varchar(36);not null" json:"examId"`
	StudentID   uint       `gorm:"uniqueIndex:idx_exam_submission_student;type:bigint unsigned;not null" json:"studentId"`
	FileURL     string     `gorm:"size:500;not null" json:"fileUrl"`
	SubmittedAt time.Time  `json:"submittedAt"`
	Marks       *int       `json:"marks,omitempty"`
	Feedback    string     `gorm:"type:text" json:"feedback"`
	GraderID    *uint      `gorm:"type:bigint unsigned" json:"graderId,omitempty"`
	GradedAt    *time.Time `json:"gradedAt,omitempty"`
}

func (ExamSubmission) TableName() string {
	return "exam_submissions"
}
