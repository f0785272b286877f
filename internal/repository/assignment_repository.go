package repository

import (
	"coachly_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(assignment *model.Assignment) error {
	return r.DB.Create(assignment).Error
}

func (r *AssignmentRepository) FindByID(id string) (*model.Assignment, error) {
	var a model.Assignment
	if err := r.DB.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) Update(assignment *model.Assignment) error {
	return r.DB.Save(assignment).Error
}

func (r *AssignmentRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assignment{}, "id = ?", id).Error
	})
}

func (r *AssignmentRepository) ListByBatch(batchID uint, publishedOnly bool) ([]model.Assignment, error) {
	query := r.DB.Where("batch_id = ?", batchID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var assignments []model.Assignment
	err := query.Order("created_at desc").Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) FindSubmission(assignmentID string, studentID uint) (*model.AssignmentSubmission, error) {
	var s model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AssignmentRepository) SaveSubmission(submission *model.AssignmentSubmission) error {
	return r.DB.Save(submission).Error
}

// SubmissionWithStudent 提交记录及学生姓名
type SubmissionWithStudent struct {
	model.AssignmentSubmission
	StudentName string `json:"studentName"`
}

func (r *AssignmentRepository) ListSubmissions(assignmentID string) ([]SubmissionWithStudent, error) {
	var rows []SubmissionWithStudent
	err := r.DB.Table("assignment_submissions s").
		Select("s.*, u.name as student_name").
		Joins("JOIN users u ON u.id = s.student_id").
		Where("s.assignment_id = ? AND s.deleted_at IS NULL", assignmentID).
		Order("s.submitted_at asc").
		Scan(&rows).Error
	return rows, err
}

func (r *AssignmentRepository) FindSubmissionByID(id string) (*model.AssignmentSubmission, error) {
	var s model.AssignmentSubmission
	if err := r.DB.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
