package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:100;index" json:"category"`
	Level       string     `gorm:"size:50" json:"level"` // beginner / intermediate / advanced
	CoverURL    string     `gorm:"size:255" json:"coverUrl"`
	IsPublished bool       `gorm:"default:false" json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatorID   uint       `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Batch
type Batch struct {
	BaseModel
	CourseID   uint       `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	TeacherID  uint       `gorm:"index;type:bigint unsigned;not null" json:"teacherId"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	SeatLimit  int        `gorm:"default:0" json:"seatLimit"` // 0 表示不限名额
	IsArchived bool       `gorm:"default:false" json:"isArchived"`
}

func (Batch) TableName() string {
	return "batches"
}
