package model

import (
	"encoding/json"
	"time"
)

type ExamType string

const (
	ExamMCQ ExamType = "mcq"
	ExamPDF ExamType = "pdf"
)

// swagger:model Exam
type Exam struct {
	UUIDBase
	BatchID         uint       `gorm:"index;type:bigint unsigned;not null" json:"batchId"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	ExamType        ExamType   `gorm:"type:enum('mcq','pdf');default:'mcq'" json:"examType"`
	DurationMinutes int        `gorm:"default:0" json:"durationMinutes"`
	TotalMarks      int        `gorm:"default:0" json:"totalMarks"` // 由题目分值重新计算得出
	StartAt         *time.Time `json:"startAt,omitempty"`
	EndAt           *time.Time `json:"endAt,omitempty"`
	IsPublished     bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	CreatorID       uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Exam) TableName() string {
	return "exams"
}

// swagger:model ExamQuestion
type ExamQuestion struct {
	UUIDBase
	ExamID        string          `gorm:"index;type:varchar(36);not null" json:"examId"`
	Text          string          `gorm:"type:text;not null" json:"text"`
	Options       json.RawMessage `gorm:"type:json" json:"options"` // 2-6 个选项
	CorrectIndex  int             `gorm:"not null" json:"-"`        // 学生端永不返回
	Marks         int             `gorm:"default:1" json:"marks"`
	NegativeMarks int             `gorm:"default:0" json:"negativeMarks"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

// OptionList 解析选项 JSON，解析失败时返回空列表
func (q *ExamQuestion) OptionList() []string {
	var opts []string
	if len(q.Options) > 0 {
		_ = json.Unmarshal(q.Options, &opts)
	}
	return opts
}
