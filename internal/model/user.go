package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// User 对应身份服务签发的账号，门户不创建凭据，
// 只用这条记录确认调用者的角色
// swagger:model User
type User struct {
	BaseModel
	Name  string   `gorm:"size:100;not null" json:"name"`
	Email string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Role  UserRole `gorm:"size:20;not null;default:'student';index" json:"role"`
}

func (User) TableName() string {
	return "users"
}
