package repository

import (
	"coachly_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) FindByID(id string) (*model.Exam, error) {
	var exam model.Exam
	if err := r.DB.First(&exam, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) Update(exam *model.Exam) error {
	return r.DB.Save(exam).Error
}

// Delete 级联删除题目、答题记录与 pdf 提交
func (r *ExamRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", id).Delete(&model.ExamQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", id).Delete(&model.ExamAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("exam_id = ?", id).Delete(&model.ExamSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, "id = ?", id).Error
	})
}

func (r *ExamRepository) ListByBatch(batchID uint, publishedOnly bool) ([]model.Exam, error) {
	query := r.DB.Where("batch_id = ?", batchID)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var exams []model.Exam
	err := query.Order("created_at desc").Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) ListQuestions(examID string) ([]model.ExamQuestion, error) {
	var qs []model.ExamQuestion
	err := r.DB.Where("exam_id = ?", examID).Order("`order` asc, created_at asc").Find(&qs).Error
	return qs, err
}

func (r *ExamRepository) FindQuestionByID(id string) (*model.ExamQuestion, error) {
	var q model.ExamQuestion
	if err := r.DB.First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// AddQuestion 新增题目并在同一事务内重算试卷总分
func (r *ExamRepository) AddQuestion(question *model.ExamQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		return recomputeTotalMarks(tx, question.ExamID)
	})
}

// DeleteQuestion 删除题目并在同一事务内重算试卷总分
func (r *ExamRepository) DeleteQuestion(question *model.ExamQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ExamQuestion{}, "id = ?", question.ID).Error; err != nil {
			return err
		}
		return recomputeTotalMarks(tx, question.ExamID)
	})
}

// recomputeTotalMarks 总分始终由题目分值求和重算，不做增量维护
func recomputeTotalMarks(tx *gorm.DB, examID string) error {
	var total int64
	err := tx.Model(&model.ExamQuestion{}).
		Where("exam_id = ?", examID).
		Select("COALESCE(SUM(marks), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}
	return tx.Model(&model.Exam{}).Where("id = ?", examID).Update("total_marks", total).Error
}
