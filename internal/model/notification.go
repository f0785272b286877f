package model

import "time"

type NotificationKind string

const (
	NotifyExam        NotificationKind = "exam"
	NotifyLesson      NotificationKind = "lesson"
	NotifyAssignment  NotificationKind = "assignment"
	NotifyLiveClass   NotificationKind = "live_class"
	NotifyEnrollment  NotificationKind = "enrollment"
	NotifyCertificate NotificationKind = "certificate"
)

// swagger:model Notification
type Notification struct {
	BaseModel
	UserID  uint             `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	BatchID uint             `gorm:"index;type:bigint unsigned" json:"batchId"`
	Kind    NotificationKind `gorm:"size:30;not null" json:"kind"`
	RefID   string           `gorm:"size:36" json:"refId"` // 关联的考试/课时/作业/直播 ID
	Title   string           `gorm:"size:255;not null" json:"title"`
	Body    string           `gorm:"type:text" json:"body"`
	IsRead  bool             `gorm:"default:false;index" json:"isRead"`
	ReadAt  *time.Time       `json:"readAt,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
