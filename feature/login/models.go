package login

// User is an operator account allowed to use the POS API.
type User struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	Email    string `gorm:"column:email;uniqueIndex;size:191" json:"email"`
	Password string `gorm:"column:password" json:"-"`
}

// TableName overrides the table name used by gorm.
func (User) TableName() string {
	return "users"
}
