package service

import (
	"coachly_backend/internal/config"
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"coachly_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const examQuestionCachePrefix = "exam:questions:"

type ExamService struct {
	ExamRepo       *repository.ExamRepository
	BatchRepo      *repository.BatchRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Notification   *NotificationService
	Redis          *redis.Client
	Cfg            *config.Config
}

func NewExamService(
	examRepo *repository.ExamRepository,
	batchRepo *repository.BatchRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	notification *NotificationService,
	rdb *redis.Client,
	cfg *config.Config,
) *ExamService {
	return &ExamService{
		ExamRepo:       examRepo,
		BatchRepo:      batchRepo,
		EnrollmentRepo: enrollmentRepo,
		Notification:   notification,
		Redis:          rdb,
		Cfg:            cfg,
	}
}

// AssertBatchOwner 批次归属教师或管理员才能管理批次内资源
func (s *ExamService) AssertBatchOwner(batchID uint, userID uint, role model.UserRole) error {
	if role == model.Admin {
		return nil
	}
	batch, err := s.BatchRepo.FindByID(batchID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrBatchNotFound
		}
		return err
	}
	if batch.TeacherID != userID {
		return util.ErrPermissionDenied
	}
	return nil
}

type ExamReq struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	ExamType        *string    `json:"examType"`
	DurationMinutes *int       `json:"durationMinutes"`
	StartAt         *time.Time `json:"startAt"`
	EndAt           *time.Time `json:"endAt"`
	IsPublished     *bool      `json:"isPublished"`
}

func (s *ExamService) CreateExam(batchID uint, creatorID uint, role model.UserRole, req ExamReq) (*model.Exam, error) {
	if err := s.AssertBatchOwner(batchID, creatorID, role); err != nil {
		return nil, err
	}
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	exam := &model.Exam{
		BatchID:   batchID,
		Title:     *req.Title,
		ExamType:  model.ExamMCQ,
		CreatorID: creatorID,
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.ExamType != nil {
		switch model.ExamType(*req.ExamType) {
		case model.ExamMCQ, model.ExamPDF:
			exam.ExamType = model.ExamType(*req.ExamType)
		default:
			return nil, errors.New("examType must be mcq or pdf")
		}
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	exam.StartAt = req.StartAt
	exam.EndAt = req.EndAt

	if err := s.ExamRepo.Create(exam); err != nil {
		return nil, err
	}

	if req.IsPublished != nil && *req.IsPublished {
		if err := s.PublishExam(exam.ID, creatorID, role); err != nil {
			return nil, err
		}
		exam.IsPublished = true
	}

	return exam, nil
}

func (s *ExamService) UpdateExam(examID string, userID uint, role model.UserRole, req ExamReq) (*model.Exam, error) {
	exam, err := s.findExam(examID)
	if err != nil {
		return nil, err
	}
	if err := s.AssertBatchOwner(exam.BatchID, userID, role); err != nil {
		return nil, err
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		exam.DurationMinutes = *req.DurationMinutes
	}
	if req.StartAt != nil {
		exam.StartAt = req.StartAt
	}
	if req.EndAt != nil {
		exam.EndAt = req.EndAt
	}

	if err := s.ExamRepo.Update(exam); err != nil {
		return nil, err
	}
	s.invalidateQuestionCache(examID)
	return exam, nil
}

func (s *ExamService) DeleteExam(examID string, userID uint, role model.UserRole) error {
	exam, err := s.findExam(examID)
	if err != nil {
		return err
	}
	if err := s.AssertBatchOwner(exam.BatchID, userID, role); err != nil {
		return err
	}
	s.invalidateQuestionCache(examID)
	return s.ExamRepo.Delete(examID)
}

func (s *ExamService) GetExam(examID string, userID uint, role model.UserRole) (*model.Exam, []model.ExamQuestion, error) {
	exam, err := s.findExam(examID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.AssertBatchOwner(exam.BatchID, userID, role); err != nil {
		return nil, nil, err
	}
	qs, err := s.ExamRepo.ListQuestions(examID)
	return exam, qs, err
}

func (s *ExamService) ListExams(batchID uint, publishedOnly bool) ([]model.Exam, error) {
	return s.ExamRepo.ListByBatch(batchID, publishedOnly)
}

// PublishExam 发布考试并向批次内审核通过的学生扇出通知
func (s *ExamService) PublishExam(examID string, userID uint, role model.UserRole) error {
	exam, err := s.findExam(examID)
	if err != nil {
		return err
	}
	if err := s.AssertBatchOwner(exam.BatchID, userID, role); err != nil {
		return err
	}
	if exam.IsPublished {
		return nil
	}

	now := time.Now()
	exam.IsPublished = true
	exam.PublishedAt = &now
	if err := s.ExamRepo.Update(exam); err != nil {
		return err
	}

	if err := s.Notification.FanOutToBatch(exam.BatchID, model.NotifyExam, exam.ID,
		"新考试: "+exam.Title, exam.Description); err != nil {
		// 扇出失败不回滚发布，仅记录
		logger.Log.Error("exam publish notification fan-out failed",
			zap.String("examId", exam.ID), zap.Error(err))
	}
	return nil
}

type QuestionReq struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	CorrectIndex  int      `json:"correctIndex"`
	Marks         *int     `json:"marks"`
	NegativeMarks *int     `json:"negativeMarks"`
	Order         int      `json:"order"`
}

// validateQuestionReq 返回校验后的分值；marks 缺省 1，negativeMarks 缺省 0
func validateQuestionReq(req QuestionReq) (marks, negative int, err error) {
	if len(req.Options) < util.MinOptionCount || len(req.Options) > util.MaxOptionCount {
		return 0, 0, errors.New("options must contain 2 to 6 entries")
	}
	if req.CorrectIndex < 0 || req.CorrectIndex >= len(req.Options) {
		return 0, 0, errors.New("correctIndex out of options range")
	}

	marks = 1
	if req.Marks != nil {
		marks = *req.Marks
	}
	if marks <= 0 {
		return 0, 0, errors.New("marks must be positive")
	}
	if req.NegativeMarks != nil {
		negative = *req.NegativeMarks
	}
	if negative < 0 {
		return 0, 0, errors.New("negativeMarks must be non-negative")
	}
	return marks, negative, nil
}

// AddQuestion 新增题目；题目变动在仓储层事务内重算 totalMarks
func (s *ExamService) AddQuestion(examID string, userID uint, role model.UserRole, req QuestionReq) (*model.ExamQuestion, error) {
	exam, err := s.findExam(examID)
	if err != nil {
		return nil, err
	}
	if err := s.AssertBatchOwner(exam.BatchID, userID, role); err != nil {
		return nil, err
	}

	marks, negative, err := validateQuestionReq(req)
	if err != nil {
		return nil, err
	}

	rawOptions, err := json.Marshal(req.Options)
	if err != nil {
		return nil, err
	}

	question := &model.ExamQuestion{
		ExamID:        examID,
		Text:          req.Text,
		Options:       rawOptions,
		CorrectIndex:  req.CorrectIndex,
		Marks:         marks,
		NegativeMarks: negative,
		Order:         req.Order,
	}
	if err := s.ExamRepo.AddQuestion(question); err != nil {
		return nil, err
	}
	s.invalidateQuestionCache(examID)
	return question, nil
}

func (s *ExamService) DeleteQuestion(questionID string, userID uint, role model.UserRole) error {
	question, err := s.ExamRepo.FindQuestionByID(questionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrQuestionNotFound
		}
		return err
	}
	exam, err := s.findExam(question.ExamID)
	if err != nil {
		return err
	}
	if err := s.AssertBatchOwner(exam.BatchID, userID, role); err != nil {
		return err
	}
	if err := s.ExamRepo.DeleteQuestion(question); err != nil {
		return err
	}
	s.invalidateQuestionCache(question.ExamID)
	return nil
}

// StudentQuestion 学生端题目视图，永不包含 correctIndex
type StudentQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Marks   int      `json:"marks"`
	Order   int      `json:"order"`
}

// QuestionsForStudent 学生取题：已发布、已报名且在考试窗口内。
// 结果在 Redis 中缓存，题目变动时失效。
func (s *ExamService) QuestionsForStudent(examID string, studentID uint) ([]StudentQuestion, error) {
	exam, err := s.findExam(examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsPublished {
		return nil, util.ErrExamNotPublished
	}
	if exam.ExamType != model.ExamMCQ {
		return nil, util.ErrExamNotMCQ
	}
	enrolled, err := s.EnrollmentRepo.HasApproved(exam.BatchID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	if err := CheckStartWindow(exam, time.Now()); err != nil {
		return nil, err
	}

	cacheKey := examQuestionCachePrefix + examID
	cacheTTL := time.Duration(s.Cfg.Exam.QuestionCacheSeconds) * time.Second

	if s.Redis != nil && cacheTTL > 0 {
		if cached, err := s.Redis.Get(context.Background(), cacheKey).Result(); err == nil {
			var questions []StudentQuestion
			if json.Unmarshal([]byte(cached), &questions) == nil {
				return questions, nil
			}
		}
	}

	qs, err := s.ExamRepo.ListQuestions(examID)
	if err != nil {
		return nil, err
	}

	questions := make([]StudentQuestion, 0, len(qs))
	for _, q := range qs {
		questions = append(questions, StudentQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.OptionList(),
			Marks:   q.Marks,
			Order:   q.Order,
		})
	}

	if s.Redis != nil && cacheTTL > 0 {
		if raw, err := json.Marshal(questions); err == nil {
			s.Redis.Set(context.Background(), cacheKey, raw, cacheTTL)
		}
	}

	return questions, nil
}

func (s *ExamService) invalidateQuestionCache(examID string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), examQuestionCachePrefix+examID)
}

func (s *ExamService) findExam(examID string) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	return exam, nil
}
