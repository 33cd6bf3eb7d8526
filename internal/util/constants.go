package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// gin 上下文键
const (
	CtxSession   = "session"
	CtxSessionID = "session_id"
	CtxToken     = "token"
)

const (
	MimeHTML = "text/html; charset=utf-8"
	MimeCSV  = "text/csv; charset=utf-8"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var AllowedImportExtensions = []string{".xlsx", ".csv"}
