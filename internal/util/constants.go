package util

// 存储类型
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const MimeImage = "image/"

// MaxLogoSize 课堂 logo 上传大小上限
const MaxLogoSize = 2 << 20

// gin 上下文键
const (
	ContextUserKey   = "user"
	ContextAccessKey = "access"
)
