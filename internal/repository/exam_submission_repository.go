package repository

import (
	"coachly_backend/internal/model"

	"gorm.io/gorm"
)

type ExamSubmissionRepository struct {
	DB *gorm.DB
}

func NewExamSubmissionRepository(db *gorm.DB) *ExamSubmissionRepository {
	return &ExamSubmissionRepository{DB: db}
}

func (r *ExamSubmissionRepository) FindByExamAndStudent(examID string, studentID uint) (*model.ExamSubmission, error) {
	var s model.ExamSubmission
	err := r.DB.Where("exam_id = ? AND student_id = ?", examID, studentID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ExamSubmissionRepository) FindByID(id string) (*model.ExamSubmission, error) {
	var s model.ExamSubmission
	if err := r.DB.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Save 一人一份，重复提交覆盖原记录
func (r *ExamSubmissionRepository) Save(submission *model.ExamSubmission) error {
	return r.DB.Save(submission).Error
}

// PDFSubmissionRow pdf 提交列表行
type PDFSubmissionRow struct {
	model.ExamSubmission
	StudentName string `json:"studentName"`
}

func (r *ExamSubmissionRepository) ListByExam(examID string) ([]PDFSubmissionRow, error) {
	var rows []PDFSubmissionRow
	err := r.DB.Table("exam_submissions s").
		Select("s.*, u.name as student_name").
		Joins("JOIN users u ON u.id = s.student_id").
		Where("s.exam_id = ? AND s.deleted_at IS NULL", examID).
		Order("s.submitted_at asc").
		Scan(&rows).Error
	return rows, err
}
