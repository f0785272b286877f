package repository

import (
	"coachly_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(certificate *model.Certificate) error {
	return r.DB.Create(certificate).Error
}

func (r *CertificateRepository) FindByBatchAndStudent(batchID, studentID uint) (*model.Certificate, error) {
	var c model.Certificate
	err := r.DB.Where("batch_id = ? AND student_id = ?", batchID, studentID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CertificateRepository) FindBySerial(serial string) (*model.Certificate, error) {
	var c model.Certificate
	if err := r.DB.Where("serial = ?", serial).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CertificateRepository) ListByStudent(studentID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Where("student_id = ?", studentID).Order("issued_at desc").Find(&certs).Error
	return certs, err
}

// CertificateWithStudent 证书及学生姓名
type CertificateWithStudent struct {
	model.Certificate
	StudentName string `json:"studentName"`
}

func (r *CertificateRepository) ListByBatch(batchID uint) ([]CertificateWithStudent, error) {
	var rows []CertificateWithStudent
	err := r.DB.Table("certificates c").
		Select("c.*, u.name as student_name").
		Joins("JOIN users u ON u.id = c.student_id").
		Where("c.batch_id = ? AND c.deleted_at IS NULL", batchID).
		Order("c.issued_at desc").
		Scan(&rows).Error
	return rows, err
}
