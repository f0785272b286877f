package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 选项数量为全平台上限，与单题实际选项数无关
const (
	MinOptionCount = 2
	MaxOptionCount = 6
	MaxOptionIndex = MaxOptionCount - 1
)

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

const (
	MaxAvatarSizeBytes     = 5 << 20   // 5MB
	MaxAttachmentSizeBytes = 50 << 20  // 50MB
	MaxVideoSizeBytes      = 500 << 20 // 500MB
)
