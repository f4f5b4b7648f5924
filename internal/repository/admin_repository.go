package repository

import (
	"github.com/gamisaur/gccan/internal/model"
	"gorm.io/gorm"
)

// AdminRepository defines persistence operations for admin accounts.
type AdminRepository interface {
	Create(admin *model.Admin) error
	FindByEmail(email string) (*model.Admin, error)
	FindByID(id uint) (*model.Admin, error)
	Update(admin *model.Admin) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository instance.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create inserts a new admin record.
func (r *adminRepository) Create(admin *model.Admin) error {
	return r.db.Create(admin).Error
}

// FindByEmail looks up an admin by email.
func (r *adminRepository) FindByEmail(email string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.Where("email = ?", email).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID looks up an admin by its identifier.
func (r *adminRepository) FindByID(id uint) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.First(&admin, id).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Update saves an existing admin record.
func (r *adminRepository) Update(admin *model.Admin) error {
	return r.db.Save(admin).Error
}
