package model

import "time"

// swagger:model LiveClass
type LiveClass struct {
	UUIDBase
	BatchID         uint      `gorm:"index;type:bigint unsigned;not null" json:"batchId"`
	Topic           string    `gorm:"size:255;not null" json:"topic"`
	Description     string    `gorm:"type:text" json:"description"`
	MeetingURL      string    `gorm:"size:500" json:"meetingUrl"`
	ScheduledAt     time.Time `gorm:"index" json:"scheduledAt"`
	DurationMinutes int       `gorm:"default:60" json:"durationMinutes"`
	CreatorID       uint      `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (LiveClass) TableName() string {
	return "live_classes"
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// swagger:model Attendance
type Attendance struct {
	BaseModel
	LiveClassID string           `gorm:"uniqueIndex:idx_class_student;type:varchar(36);not null" json:"liveClassId"`
	StudentID   uint             `gorm:"uniqueIndex:idx_class_student;type:bigint unsigned;not null" json:"studentId"`
	Status      AttendanceStatus `gorm:"type:enum('present','absent','late');default:'absent'" json:"status"`
	MarkedBy    uint             `gorm:"type:bigint unsigned" json:"markedBy"`
	MarkedAt    time.Time        `json:"markedAt"`
}

func (Attendance) TableName() string {
	return "attendances"
}
