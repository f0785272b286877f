package model

import (
	"encoding/json"
	"time"
)

type AttemptStatus string

const (
	AttemptStarted   AttemptStatus = "started"
	AttemptSubmitted AttemptStatus = "submitted"
	// AttemptExpired 不落库，读取时按截止时间推导
	AttemptExpired AttemptStatus = "expired"
)

// AttemptAnswer 归一化后的单题作答
type AttemptAnswer struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
}

// swagger:model ExamAttempt
type ExamAttempt struct {
	BaseModel
	ExamID       string          `gorm:"uniqueIndex:idx_exam_student;type:varchar(36);not null" json:"examId"`
	StudentID    uint            `gorm:"uniqueIndex:idx_exam_student;type:bigint unsigned;not null" json:"studentId"`
	BatchID      uint            `gorm:"index;type:bigint unsigned" json:"batchId"` // 冗余批次，便于按批次查询
	StartedAt    time.Time       `json:"startedAt"`
	SubmittedAt  *time.Time      `json:"submittedAt,omitempty"`
	Answers      json.RawMessage `gorm:"type:json" json:"answers,omitempty"`
	Score        int             `gorm:"default:0" json:"score"`
	CorrectCount int             `gorm:"default:0" json:"correctCount"`
	WrongCount   int             `gorm:"default:0" json:"wrongCount"`
	Status       AttemptStatus   `gorm:"type:enum('started','submitted');default:'started';index" json:"status"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

// AnswerList 解析归一化作答 JSON
func (a *ExamAttempt) AnswerList() []AttemptAnswer {
	var answers []AttemptAnswer
	if len(a.Answers) > 0 {
		_ = json.Unmarshal(a.Answers, &answers)
	}
	return answers
}
