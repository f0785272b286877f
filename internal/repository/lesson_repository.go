package repository

import (
	"coachly_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.DB.First(&lesson, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// Delete 级联删除课时下的全部资料
func (r *LessonRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&model.Material{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Lesson{}, "id = ?", id).Error
	})
}

func (r *LessonRepository) ListByBatch(batchID uint, publishedOnly bool) ([]model.Lesson, error) {
	query := r.DB.Where("batch_id = ?", batchID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var lessons []model.Lesson
	err := query.Order("`order` asc, created_at asc").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) CreateMaterial(material *model.Material) error {
	return r.DB.Create(material).Error
}

func (r *LessonRepository) FindMaterialByID(id string) (*model.Material, error) {
	var m model.Material
	if err := r.DB.First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *LessonRepository) UpdateMaterial(material *model.Material) error {
	return r.DB.Save(material).Error
}

func (r *LessonRepository) DeleteMaterial(id string) error {
	return r.DB.Delete(&model.Material{}, "id = ?", id).Error
}

func (r *LessonRepository) ListMaterials(lessonID string) ([]model.Material, error) {
	var materials []model.Material
	err := r.DB.Where("lesson_id = ?", lessonID).Order("`order` asc, created_at asc").Find(&materials).Error
	return materials, err
}
