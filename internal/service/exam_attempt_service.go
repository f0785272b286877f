package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// attemptStore / examStore / enrollmentStore 是仓储的窄接口，
// gorm 实现与内存实现（测试）均可注入。
type attemptStore interface {
	FindByExamAndStudent(examID string, studentID uint) (*model.ExamAttempt, error)
	Create(attempt *model.ExamAttempt) error
	SubmitIfStarted(attemptID uint, answers []model.AttemptAnswer, score, correctCount, wrongCount int, submittedAt time.Time) (bool, error)
	ListByStudent(studentID uint, batchID uint) ([]repository.AttemptResultRow, error)
	ListSubmittedByExam(examID string) ([]repository.LeaderboardRow, error)
}

type examStore interface {
	FindByID(id string) (*model.Exam, error)
	ListQuestions(examID string) ([]model.ExamQuestion, error)
}

type enrollmentStore interface {
	HasApproved(batchID, studentID uint) (bool, error)
}

// ExamAttemptService 管理单个学生对单场 mcq 考试的答题生命周期：
// 开始、时窗校验、一次性提交与计分。
type ExamAttemptService struct {
	AttemptRepo    attemptStore
	ExamRepo       examStore
	EnrollmentRepo enrollmentStore
}

func NewExamAttemptService(attemptRepo *repository.ExamAttemptRepository, examRepo *repository.ExamRepository, enrollmentRepo *repository.EnrollmentRepository) *ExamAttemptService {
	return &ExamAttemptService{
		AttemptRepo:    attemptRepo,
		ExamRepo:       examRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// StartAttemptResult Start 返回已有或新建的记录；AlreadyExists 区分 201/409
type StartAttemptResult struct {
	AttemptID     uint                `json:"attemptId"`
	Status        model.AttemptStatus `json:"status"`
	StartedAt     time.Time           `json:"startedAt"`
	AlreadyExists bool                `json:"-"`
}

// loadAccessibleExam 试卷存在、已发布、学生在批次内审核通过，三道门共用
func (s *ExamAttemptService) loadAccessibleExam(examID string, studentID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	if exam.ExamType != model.ExamMCQ {
		return nil, util.ErrExamNotMCQ
	}
	if !exam.IsPublished {
		return nil, util.ErrExamNotPublished
	}

	enrolled, err := s.EnrollmentRepo.HasApproved(exam.BatchID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	return exam, nil
}

// StartAttempt 幂等开始答题：已有记录时返回其 id 与状态而非报错
func (s *ExamAttemptService) StartAttempt(examID string, studentID uint) (*StartAttemptResult, error) {
	exam, err := s.loadAccessibleExam(examID, studentID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := CheckStartWindow(exam, now); err != nil {
		return nil, err
	}

	// 先查再插；并发竞争交给唯一索引兜底
	existing, err := s.AttemptRepo.FindByExamAndStudent(examID, studentID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if existing != nil {
		return &StartAttemptResult{
			AttemptID: existing.ID,
			// 状态按当前时刻推导，超时未交的记录在恢复时显示 expired
			Status:        EffectiveStatus(existing.Status, existing.StartedAt, exam.DurationMinutes, now),
			StartedAt:     existing.StartedAt,
			AlreadyExists: true,
		}, nil
	}

	attempt := &model.ExamAttempt{
		ExamID:    examID,
		StudentID: studentID,
		BatchID:   exam.BatchID,
		StartedAt: now,
		Status:    model.AttemptStarted,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		if repository.IsDuplicateKeyError(err) {
			// 输掉并发创建的一方：取回已有记录
			existing, ferr := s.AttemptRepo.FindByExamAndStudent(examID, studentID)
			if ferr != nil {
				return nil, ferr
			}
			return &StartAttemptResult{
				AttemptID:     existing.ID,
				Status:        EffectiveStatus(existing.Status, existing.StartedAt, exam.DurationMinutes, now),
				StartedAt:     existing.StartedAt,
				AlreadyExists: true,
			}, nil
		}
		return nil, err
	}

	return &StartAttemptResult{
		AttemptID: attempt.ID,
		Status:    attempt.Status,
		StartedAt: attempt.StartedAt,
	}, nil
}

// SubmitAttemptResult 提交结果
type SubmitAttemptResult struct {
	Score        int       `json:"score"`
	TotalMarks   int       `json:"totalMarks"`
	CorrectCount int       `json:"correctCount"`
	WrongCount   int       `json:"wrongCount"`
	StartedAt    time.Time `json:"startedAt"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// SubmitAttempt 一次性提交：过滤、去重、计分后以条件更新完成
// started -> submitted 迁移，并发提交只有一方成功。
func (s *ExamAttemptService) SubmitAttempt(examID string, studentID uint, answers []AnswerInput) (*SubmitAttemptResult, error) {
	exam, err := s.loadAccessibleExam(examID, studentID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.AttemptRepo.FindByExamAndStudent(examID, studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.Status == model.AttemptSubmitted {
		return nil, util.ErrAttemptSubmitted
	}

	now := time.Now()
	// 提交受单次答题时长约束，与考试级 endAt 无关
	if deadline, ok := SubmitDeadline(exam, attempt.StartedAt); ok && now.After(deadline) {
		return nil, util.ErrAttemptDeadlinePassed
	}

	questions, err := s.ExamRepo.ListQuestions(examID)
	if err != nil {
		return nil, err
	}
	key := ScoringKeyFromQuestions(questions)

	normalized := NormalizeAnswers(answers, key)
	score, correctCount, wrongCount := ScoreAnswers(normalized, key)

	transitioned, err := s.AttemptRepo.SubmitIfStarted(attempt.ID, normalized, score, correctCount, wrongCount, now)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// 条件更新没碰到行：另一个提交抢先完成了迁移
		return nil, util.ErrAttemptSubmitted
	}

	return &SubmitAttemptResult{
		Score:        score,
		TotalMarks:   exam.TotalMarks,
		CorrectCount: correctCount,
		WrongCount:   wrongCount,
		StartedAt:    attempt.StartedAt,
		SubmittedAt:  now,
	}, nil
}

// MyResultRow 学生个人成绩行，状态包含读取时推导的 expired
type MyResultRow struct {
	AttemptID       uint                `json:"attemptId"`
	ExamID          string              `json:"examId"`
	ExamTitle       string              `json:"examTitle"`
	BatchID         uint                `json:"batchId"`
	TotalMarks      int                 `json:"totalMarks"`
	DurationMinutes int                 `json:"durationMinutes"`
	Score           int                 `json:"score"`
	CorrectCount    int                 `json:"correctCount"`
	WrongCount      int                 `json:"wrongCount"`
	Status          model.AttemptStatus `json:"status"`
	StartedAt       time.Time           `json:"startedAt"`
	SubmittedAt     *time.Time          `json:"submittedAt,omitempty"`
}

// ListMyResults 学生查看自己的答题记录，可按批次过滤
func (s *ExamAttemptService) ListMyResults(studentID uint, batchID uint) ([]MyResultRow, error) {
	rows, err := s.AttemptRepo.ListByStudent(studentID, batchID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	results := make([]MyResultRow, 0, len(rows))
	for _, row := range rows {
		results = append(results, MyResultRow{
			AttemptID:       row.ID,
			ExamID:          row.ExamID,
			ExamTitle:       row.ExamTitle,
			BatchID:         row.BatchID,
			TotalMarks:      row.TotalMarks,
			DurationMinutes: row.DurationMinutes,
			Score:           row.Score,
			CorrectCount:    row.CorrectCount,
			WrongCount:      row.WrongCount,
			Status:          EffectiveStatus(row.Status, row.StartedAt, row.DurationMinutes, now),
			StartedAt:       row.StartedAt,
			SubmittedAt:     row.SubmittedAt,
		})
	}
	return results, nil
}

// ListResultsForExam 教师端考试排行：分数降序，同分先交者在前
func (s *ExamAttemptService) ListResultsForExam(examID string) ([]LeaderboardEntry, error) {
	if _, err := s.ExamRepo.FindByID(examID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}

	rows, err := s.AttemptRepo.ListSubmittedByExam(examID)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			AttemptID:    row.ID,
			StudentID:    row.StudentID,
			StudentName:  row.StudentName,
			Score:        row.Score,
			CorrectCount: row.CorrectCount,
			WrongCount:   row.WrongCount,
			StartedAt:    row.StartedAt,
			SubmittedAt:  row.SubmittedAt,
		})
	}
	SortLeaderboard(entries)
	return entries, nil
}
