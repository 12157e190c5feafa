package models

// UserStatus 使用者身分
type UserStatus int

const (
	StatusUser  UserStatus = 1
	StatusAdmin UserStatus = 2
)

func (s UserStatus) String() string {
	switch s {
	case StatusUser:
		return "user"
	case StatusAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// User 只讀取，帳號建立不在此服務範圍
type User struct {
	ID         uint       `gorm:"primaryKey"`
	UserStatus UserStatus `gorm:"column:user_status;not null"`
}
