package types

// User.Password holds a bcrypt hash, never a plaintext password.
type User struct {
	ID       int    `gorm:"column:id;primaryKey" json:"id"`
	Name     string `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Password string `gorm:"column:password;not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}
