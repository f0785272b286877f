package repository

import (
	"coachly_backend/internal/model"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ExamAttemptRepository struct {
	DB *gorm.DB
}

func NewExamAttemptRepository(db *gorm.DB) *ExamAttemptRepository {
	return &ExamAttemptRepository{DB: db}
}

func (r *ExamAttemptRepository) FindByExamAndStudent(examID string, studentID uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	err := r.DB.Where("exam_id = ? AND student_id = ?", examID, studentID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create 插入新的答题记录；(exam_id, student_id) 唯一索引兜底并发重复创建
func (r *ExamAttemptRepository) Create(attempt *model.ExamAttempt) error {
	return r.DB.Create(attempt).Error
}

// IsDuplicateKeyError 唯一索引冲突（并发 Start 时输掉竞争的一方）
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "1062")
}

// SubmitIfStarted 单条条件更新完成 started -> submitted 状态迁移，
// 返回是否真正发生了迁移。并发提交只有一方能更新到行。
func (r *ExamAttemptRepository) SubmitIfStarted(attemptID uint, answers []model.AttemptAnswer, score, correctCount, wrongCount int, submittedAt time.Time) (bool, error) {
	raw, err := json.Marshal(answers)
	if err != nil {
		return false, err
	}

	result := r.DB.Model(&model.ExamAttempt{}).
		Where("id = ? AND status = ?", attemptID, model.AttemptStarted).
		Updates(map[string]interface{}{
			"status":        model.AttemptSubmitted,
			"answers":       json.RawMessage(raw),
			"score":         score,
			"correct_count": correctCount,
			"wrong_count":   wrongCount,
			"submitted_at":  submittedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AttemptResultRow 学生成绩列表行，联出试卷标题、总分与时长
type AttemptResultRow struct {
	model.ExamAttempt
	ExamTitle       string `json:"examTitle"`
	TotalMarks      int    `json:"totalMarks"`
	DurationMinutes int    `json:"durationMinutes"`
}

func (r *ExamAttemptRepository) ListByStudent(studentID uint, batchID uint) ([]AttemptResultRow, error) {
	query := r.DB.Table("exam_attempts a").
		Select("a.*, e.title as exam_title, e.total_marks, e.duration_minutes").
		Joins("JOIN exams e ON e.id = a.exam_id").
		Where("a.student_id = ? AND a.deleted_at IS NULL", studentID)
	if batchID != 0 {
		query = query.Where("a.batch_id = ?", batchID)
	}

	var rows []AttemptResultRow
	err := query.Order("a.created_at desc").Scan(&rows).Error
	return rows, err
}

// LeaderboardRow 考试排行行
type LeaderboardRow struct {
	model.ExamAttempt
	StudentName string `json:"studentName"`
}

// ListSubmittedByExam 取出全部已提交记录，排序交由服务层完成
func (r *ExamAttemptRepository) ListSubmittedByExam(examID string) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.DB.Table("exam_attempts a").
		Select("a.*, u.name as student_name").
		Joins("JOIN users u ON u.id = a.student_id").
		Where("a.exam_id = ? AND a.status = ? AND a.deleted_at IS NULL", examID, model.AttemptSubmitted).
		Scan(&rows).Error
	return rows, err
}
