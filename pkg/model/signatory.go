package model

// Signatory is one row of the signatories table.
type Signatory struct {
	ID            int64  `gorm:"primaryKey;column:id"`
	CertificateID string `gorm:"column:certificate_id"`
	Name          string `gorm:"column:name"`
	Title         string `gorm:"column:title"`
}

func (s Signatory) TableName() string {
	return "signatories"
}
