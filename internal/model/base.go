package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel 自增主键基类：账号与运营侧实体（用户、课程、批次、报名、
// 答题记录等）使用，外键列统一 bigint unsigned。
// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement;type:bigint unsigned" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UUIDBase uuid 主键基类：会暴露给客户端引用的内容实体
// （考试、题目、PDF 答卷）使用，id 不可枚举。
// swagger:model
type UUIDBase struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate 外部导入可带 id 入库，留空时生成
func (b *UUIDBase) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = GenerateUUID()
	}
	return
}

// GenerateUUID 证书序列号等非主键场景也用同一来源
func GenerateUUID() string {
	return uuid.New().String()
}
