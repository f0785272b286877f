package repository

import (
	"coachly_backend/internal/model"

	"gorm.io/gorm"
)

type BatchRepository struct {
	DB *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{DB: db}
}

func (r *BatchRepository) Create(batch *model.Batch) error {
	return r.DB.Create(batch).Error
}

func (r *BatchRepository) FindByID(id uint) (*model.Batch, error) {
	var batch model.Batch
	if err := r.DB.First(&batch, id).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *BatchRepository) Update(batch *model.Batch) error {
	return r.DB.Save(batch).Error
}

func (r *BatchRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Batch{}, id).Error
}

func (r *BatchRepository) ListByCourse(courseID uint, includeArchived bool) ([]model.Batch, error) {
	query := r.DB.Where("course_id = ?", courseID)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	var batches []model.Batch
	err := query.Order("start_date asc, created_at desc").Find(&batches).Error
	return batches, err
}

func (r *BatchRepository) ListByTeacher(teacherID uint) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&batches).Error
	return batches, err
}

// BatchWithCourse 批次及其所属课程标题
type BatchWithCourse struct {
	model.Batch
	CourseTitle string `json:"courseTitle"`
}

func (r *BatchRepository) ListByIDs(ids []uint) ([]BatchWithCourse, error) {
	var rows []BatchWithCourse
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.DB.Table("batches b").
		Select("b.*, c.title as course_title").
		Joins("JOIN courses c ON c.id = b.course_id").
		Where("b.id IN ? AND b.deleted_at IS NULL", ids).
		Scan(&rows).Error
	return rows, err
}
