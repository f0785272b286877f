package repository

import (
	"coachly_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var e model.Enrollment
	if err := r.DB.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) FindByBatchAndStudent(batchID, studentID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("batch_id = ? AND student_id = ?", batchID, studentID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// HasApproved 报名审核通过即视为拥有该批次访问权
func (r *EnrollmentRepository) HasApproved(batchID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("batch_id = ? AND student_id = ? AND status = ?", batchID, studentID, model.EnrollmentApproved).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) CountApproved(batchID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("batch_id = ? AND status = ?", batchID, model.EnrollmentApproved).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

func (r *EnrollmentRepository) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("student_id = ?", studentID).Order("created_at desc").Find(&enrollments).Error
	return enrollments, err
}

// EnrollmentWithStudent 报名记录及学生姓名邮箱
type EnrollmentWithStudent struct {
	model.Enrollment
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
}

func (r *EnrollmentRepository) ListByBatch(batchID uint, status string) ([]EnrollmentWithStudent, error) {
	query := r.DB.Table("enrollments e").
		Select("e.*, u.name as student_name, u.email as student_email").
		Joins("JOIN users u ON u.id = e.student_id").
		Where("e.batch_id = ? AND e.deleted_at IS NULL", batchID)
	if status != "" {
		query = query.Where("e.status = ?", status)
	}

	var rows []EnrollmentWithStudent
	err := query.Order("e.created_at asc").Scan(&rows).Error
	return rows, err
}

// ApprovedStudentIDs 通知扇出的目标集合：发布时刻审核通过的学生
func (r *EnrollmentRepository) ApprovedStudentIDs(batchID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Enrollment{}).
		Where("batch_id = ? AND status = ?", batchID, model.EnrollmentApproved).
		Pluck("student_id", &ids).Error
	return ids, err
}
