package util

// DateFormat 学习日期（UTC）的存储格式
const DateFormat = "2006-01-02"

// 课程资料的对象存储后端
const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 未传 userId 时使用的默认学习者
const DefaultUserID = "user-1"
