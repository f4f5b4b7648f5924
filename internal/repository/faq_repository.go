// Package repository contains the data access layer over the backing stores.
package repository

import (
	"github.com/gamisaur/gccan/internal/model"
	"gorm.io/gorm"
)

// FAQRepository defines persistence operations for FAQ records.
type FAQRepository interface {
	Create(faq *model.FAQ) error
	FindByID(id uint) (*model.FAQ, error)
	FindAll() ([]model.FAQ, error)
	UpdateAnswer(id uint, answer string) error
	Delete(id uint) error
}

type faqRepository struct {
	db *gorm.DB
}

// NewFAQRepository creates a new FAQRepository instance.
func NewFAQRepository(db *gorm.DB) FAQRepository {
	return &faqRepository{db: db}
}

// Create inserts a new FAQ record.
func (r *faqRepository) Create(faq *model.FAQ) error {
	return r.db.Create(faq).Error
}

// FindByID looks up a single FAQ record by its identifier.
func (r *faqRepository) FindByID(id uint) (*model.FAQ, error) {
	var faq model.FAQ
	err := r.db.First(&faq, id).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

// FindAll retrieves every FAQ record.
func (r *faqRepository) FindAll() ([]model.FAQ, error) {
	var faqs []model.FAQ
	err := r.db.Find(&faqs).Error
	return faqs, err
}

// UpdateAnswer replaces only the answer text of an existing FAQ.
func (r *faqRepository) UpdateAnswer(id uint, answer string) error {
	return r.db.Model(&model.FAQ{}).Where("id = ?", id).Update("answer", answer).Error
}

// Delete removes a FAQ record.
func (r *faqRepository) Delete(id uint) error {
	return r.db.Delete(&model.FAQ{}, id).Error
}
