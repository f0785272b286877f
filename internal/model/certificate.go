package model

import "time"

// swagger:model Certificate
type Certificate struct {
	UUIDBase
	BatchID   uint      `gorm:"uniqueIndex:idx_batch_student_cert;type:bigint unsigned;not null" json:"batchId"`
	StudentID uint      `gorm:"uniqueIndex:idx_batch_student_cert;type:bigint unsigned;not null" json:"studentId"`
	Serial    string    `gorm:"size:36;unique;not null" json:"serial"`
	IssuedBy  uint      `gorm:"type:bigint unsigned" json:"issuedBy"`
	IssuedAt  time.Time `json:"issuedAt"`
	Remark    string    `gorm:"size:500" json:"remark"`
}

func (Certificate) TableName() string {
	return "certificates"
}
