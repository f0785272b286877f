package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

// memAttemptStore 内存版答题仓储，(exam, student) 唯一约束与状态条件更新
// 的语义与数据库实现一致。
type memAttemptStore struct {
	attempts []*model.ExamAttempt
	nextID   uint
	// 注入 Create 行为，模拟并发竞争时的唯一索引冲突
	createHook func(*model.ExamAttempt) error
	// 条件更新直接返回未命中，模拟状态检查后输掉提交竞争
	forceSubmitLost bool
}

func (s *memAttemptStore) FindByExamAndStudent(examID string, studentID uint) (*model.ExamAttempt, error) {
	for _, a := range s.attempts {
		if a.ExamID == examID && a.StudentID == studentID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memAttemptStore) Create(attempt *model.ExamAttempt) error {
	if s.createHook != nil {
		if err := s.createHook(attempt); err != nil {
			return err
		}
	}
	for _, a := range s.attempts {
		if a.ExamID == attempt.ExamID && a.StudentID == attempt.StudentID {
			return errors.New("Error 1062: Duplicate entry for key 'idx_exam_student'")
		}
	}
	s.nextID++
	attempt.ID = s.nextID
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *memAttemptStore) SubmitIfStarted(attemptID uint, answers []model.AttemptAnswer, score, correctCount, wrongCount int, submittedAt time.Time) (bool, error) {
	if s.forceSubmitLost {
		return false, nil
	}
	for _, a := range s.attempts {
		if a.ID != attemptID || a.Status != model.AttemptStarted {
			continue
		}
		a.Status = model.AttemptSubmitted
		a.Score = score
		a.CorrectCount = correctCount
		a.WrongCount = wrongCount
		a.SubmittedAt = &submittedAt
		return true, nil
	}
	return false, nil
}

func (s *memAttemptStore) ListByStudent(studentID uint, batchID uint) ([]repository.AttemptResultRow, error) {
	return nil, nil
}

func (s *memAttemptStore) ListSubmittedByExam(examID string) ([]repository.LeaderboardRow, error) {
	return nil, nil
}

type memExamStore struct {
	exams     map[string]*model.Exam
	questions map[string][]model.ExamQuestion
}

func (s *memExamStore) FindByID(id string) (*model.Exam, error) {
	exam, ok := s.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (s *memExamStore) ListQuestions(examID string) ([]model.ExamQuestion, error) {
	return s.questions[examID], nil
}

type memEnrollmentStore struct {
	approved map[uint][]uint // batchID -> studentIDs
}

func (s *memEnrollmentStore) HasApproved(batchID, studentID uint) (bool, error) {
	for _, id := range s.approved[batchID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

func newAttemptFixture() (*ExamAttemptService, *memAttemptStore) {
	attempts := &memAttemptStore{}
	exams := &memExamStore{
		exams: map[string]*model.Exam{
			"exam-1": {
				UUIDBase:        model.UUIDBase{ID: "exam-1"},
				BatchID:         10,
				ExamType:        model.ExamMCQ,
				IsPublished:     true,
				TotalMarks:      8,
				DurationMinutes: 60,
			},
			"exam-draft": {
				UUIDBase: model.UUIDBase{ID: "exam-draft"},
				BatchID:  10,
				ExamType: model.ExamMCQ,
			},
		},
		questions: map[string][]model.ExamQuestion{
			"exam-1": {
				{UUIDBase: model.UUIDBase{ID: "q1"}, CorrectIndex: 0, Marks: 4, NegativeMarks: 1},
				{UUIDBase: model.UUIDBase{ID: "q2"}, CorrectIndex: 2, Marks: 4, NegativeMarks: 1},
			},
		},
	}
	enrollments := &memEnrollmentStore{approved: map[uint][]uint{10: {101}}}

	return &ExamAttemptService{
		AttemptRepo:    attempts,
		ExamRepo:       exams,
		EnrollmentRepo: enrollments,
	}, attempts
}

func TestStartAttemptIdempotent(t *testing.T) {
	svc, _ := newAttemptFixture()

	first, err := svc.StartAttempt("exam-1", 101)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if first.AlreadyExists {
		t.Error("first start should create a new attempt")
	}
	if first.Status != model.AttemptStarted {
		t.Errorf("status = %v, want started", first.Status)
	}

	second, err := svc.StartAttempt("exam-1", 101)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}
	if !second.AlreadyExists {
		t.Error("second start should report the existing attempt")
	}
	if second.AttemptID != first.AttemptID {
		t.Errorf("second start id = %d, want %d", second.AttemptID, first.AttemptID)
	}
}

func TestStartAttemptConcurrentDuplicate(t *testing.T) {
	svc, store := newAttemptFixture()

	// 首次存在性检查后、插入前另一请求抢先落库
	store.createHook = func(a *model.ExamAttempt) error {
		store.createHook = nil
		rival := &model.ExamAttempt{
			ExamID:    a.ExamID,
			StudentID: a.StudentID,
			BatchID:   a.BatchID,
			StartedAt: time.Now(),
			Status:    model.AttemptStarted,
		}
		store.nextID++
		rival.ID = store.nextID
		store.attempts = append(store.attempts, rival)
		return errors.New("Error 1062: Duplicate entry for key 'idx_exam_student'")
	}

	result, err := svc.StartAttempt("exam-1", 101)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !result.AlreadyExists {
		t.Error("losing the insert race should resolve to the existing attempt")
	}
	if len(store.attempts) != 1 {
		t.Errorf("store holds %d attempts, want 1", len(store.attempts))
	}
}

func TestStartAttemptGates(t *testing.T) {
	tests := []struct {
		name      string
		examID    string
		studentID uint
		wantErr   error
	}{
		{name: "unknown exam", examID: "ghost", studentID: 101, wantErr: util.ErrExamNotFound},
		{name: "unpublished exam", examID: "exam-draft", studentID: 101, wantErr: util.ErrExamNotPublished},
		{name: "not enrolled", examID: "exam-1", studentID: 202, wantErr: util.ErrNotEnrolled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAttemptFixture()
			if _, err := svc.StartAttempt(tt.examID, tt.studentID); !errors.Is(err, tt.wantErr) {
				t.Errorf("StartAttempt() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStartAttemptResumeReportsExpired(t *testing.T) {
	svc, store := newAttemptFixture()

	store.nextID++
	store.attempts = append(store.attempts, &model.ExamAttempt{
		BaseModel: model.BaseModel{ID: store.nextID},
		ExamID:    "exam-1",
		StudentID: 101,
		BatchID:   10,
		StartedAt: time.Now().Add(-2 * time.Hour), // 时长 60 分钟，早已超时
		Status:    model.AttemptStarted,
	})

	result, err := svc.StartAttempt("exam-1", 101)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !result.AlreadyExists {
		t.Fatal("expected the existing attempt")
	}
	if result.Status != model.AttemptExpired {
		t.Errorf("status = %v, want expired", result.Status)
	}
}

func TestSubmitAttempt(t *testing.T) {
	svc, _ := newAttemptFixture()

	if _, err := svc.StartAttempt("exam-1", 101); err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := svc.SubmitAttempt("exam-1", 101, []AnswerInput{
		{QuestionID: "q1", SelectedIndex: 0},
		{QuestionID: "q2", SelectedIndex: 1},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 3 { // 4 - 1
		t.Errorf("score = %d, want 3", result.Score)
	}
	if result.TotalMarks != 8 {
		t.Errorf("totalMarks = %d, want 8", result.TotalMarks)
	}
	if result.CorrectCount != 1 || result.WrongCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", result.CorrectCount, result.WrongCount)
	}
}

func TestSubmitAttemptTwiceRejected(t *testing.T) {
	svc, _ := newAttemptFixture()

	if _, err := svc.StartAttempt("exam-1", 101); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.SubmitAttempt("exam-1", 101, nil); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	if _, err := svc.SubmitAttempt("exam-1", 101, nil); !errors.Is(err, util.ErrAttemptSubmitted) {
		t.Errorf("second submit error = %v, want ErrAttemptSubmitted", err)
	}
}

func TestSubmitAttemptLosesUpdateRace(t *testing.T) {
	svc, store := newAttemptFixture()

	if _, err := svc.StartAttempt("exam-1", 101); err != nil {
		t.Fatalf("start: %v", err)
	}
	// 状态检查通过后、条件更新前另一提交完成了迁移
	store.forceSubmitLost = true

	if _, err := svc.SubmitAttempt("exam-1", 101, nil); !errors.Is(err, util.ErrAttemptSubmitted) {
		t.Errorf("error = %v, want ErrAttemptSubmitted", err)
	}
}

func TestSubmitAttemptWithoutStart(t *testing.T) {
	svc, _ := newAttemptFixture()

	if _, err := svc.SubmitAttempt("exam-1", 101, nil); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("error = %v, want ErrAttemptNotFound", err)
	}
}

func TestSubmitAttemptAfterDeadline(t *testing.T) {
	svc, store := newAttemptFixture()

	store.nextID++
	store.attempts = append(store.attempts, &model.ExamAttempt{
		BaseModel: model.BaseModel{ID: store.nextID},
		ExamID:    "exam-1",
		StudentID: 101,
		BatchID:   10,
		StartedAt: time.Now().Add(-90 * time.Minute),
		Status:    model.AttemptStarted,
	})

	if _, err := svc.SubmitAttempt("exam-1", 101, nil); !errors.Is(err, util.ErrAttemptDeadlinePassed) {
		t.Errorf("error = %v, want ErrAttemptDeadlinePassed", err)
	}
}
