package model

type MaterialKind string

const (
	MaterialText  MaterialKind = "text"
	MaterialVideo MaterialKind = "video"
	MaterialPDF   MaterialKind = "pdf"
	MaterialLink  MaterialKind = "link"
)

// swagger:model Lesson
type Lesson struct {
	UUIDBase
	BatchID     uint   `gorm:"index;type:bigint unsigned;not null" json:"batchId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Summary     string `gorm:"type:text" json:"summary"`
	Order       int    `gorm:"default:0" json:"order"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
	CreatorID   uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// swagger:model Material
type Material struct {
	UUIDBase
	LessonID        string       `gorm:"index;type:varchar(36);not null" json:"lessonId"`
	Kind            MaterialKind `gorm:"type:enum('text','video','pdf','link');default:'text'" json:"kind"`
	Title           string       `gorm:"size:255;not null" json:"title"`
	Content         string       `gorm:"type:text" json:"content"` // text 类型的正文
	URL             string       `gorm:"size:500" json:"url"`
	SizeBytes       int64        `gorm:"default:0" json:"sizeBytes"`
	DurationSeconds int          `gorm:"default:0" json:"durationSeconds"` // 视频时长
	UploaderID      uint         `gorm:"type:bigint unsigned" json:"uploaderId"`
	Order           int          `gorm:"default:0" json:"order"`
}

func (Material) TableName() string {
	return "materials"
}
