package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/signatories/pkg/model"
	"github.com/doodlesbykumbi/signatories/pkg/server/store"
)

// Ensure SignatoriesStore implements store.SignatoriesStore
var _ store.SignatoriesStore = (*SignatoriesStore)(nil)

// SignatoriesStore implements store.SignatoriesStore using GORM
type SignatoriesStore struct {
	db *gorm.DB
}

// NewSignatoriesStore creates a new SignatoriesStore
func NewSignatoriesStore(db *gorm.DB) *SignatoriesStore {
	return &SignatoriesStore{db: db}
}

// ListSignatories returns the signatories of a certificate ordered by id.
func (s *SignatoriesStore) ListSignatories(ctx context.Context, certificateID string) ([]store.Signatory, error) {
	var rows []model.Signatory
	tx := s.db.WithContext(ctx).Where("certificate_id = ?", certificateID).Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	result := make([]store.Signatory, 0, len(rows))
	for _, row := range rows {
		result = append(result, fromModel(row))
	}
	return result, nil
}

// CreateSignatory stores a new signatory and sets its ID.
func (s *SignatoriesStore) CreateSignatory(ctx context.Context, sig *store.Signatory) error {
	row := model.Signatory{
		CertificateID: sig.CertificateID,
		Name:          sig.Name,
		Title:         sig.Title,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	sig.ID = row.ID
	return nil
}

// UpdateSignatory replaces the name and title of a signatory.
func (s *SignatoriesStore) UpdateSignatory(ctx context.Context, sig store.Signatory) error {
	tx := s.db.WithContext(ctx).
		Model(&model.Signatory{}).
		Where("certificate_id = ? AND id = ?", sig.CertificateID, sig.ID).
		Updates(map[string]interface{}{"name": sig.Name, "title": sig.Title})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrSignatoryNotFound
	}
	return nil
}

// DeleteSignatory removes a signatory.
func (s *SignatoriesStore) DeleteSignatory(ctx context.Context, certificateID string, id int64) error {
	tx := s.db.WithContext(ctx).
		Where("certificate_id = ? AND id = ?", certificateID, id).
		Delete(&model.Signatory{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrSignatoryNotFound
	}
	return nil
}

func fromModel(row model.Signatory) store.Signatory {
	return store.Signatory{
		ID:            row.ID,
		CertificateID: row.CertificateID,
		Name:          row.Name,
		Title:         row.Title,
	}
}
