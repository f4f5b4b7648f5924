package model

import "time"

// Admin corresponds to the 'admins' table. The existence of a row is the
// authorization model: whoever can authenticate against one is an admin.
type Admin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName string    `gorm:"type:varchar(255)" json:"displayName"`
	PhotoURL    string    `gorm:"type:varchar(500)" json:"photoURL"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table backing this model.
func (Admin) TableName() string {
	return "admins"
}
