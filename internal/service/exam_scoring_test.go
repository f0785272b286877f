package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/util"
	"testing"
	"time"
)

func scoringKey() map[string]ScoringQuestion {
	return map[string]ScoringQuestion{
		"q1": {CorrectIndex: 0, Marks: 4, NegativeMarks: 1},
		"q2": {CorrectIndex: 2, Marks: 4, NegativeMarks: 1},
		"q3": {CorrectIndex: 1, Marks: 2, NegativeMarks: 0},
	}
}

func TestNormalizeAnswers(t *testing.T) {
	key := scoringKey()

	tests := []struct {
		name    string
		answers []AnswerInput
		want    []model.AttemptAnswer
	}{
		{
			name:    "empty input",
			answers: nil,
			want:    []model.AttemptAnswer{},
		},
		{
			name: "unknown question dropped",
			answers: []AnswerInput{
				{QuestionID: "q1", SelectedIndex: 0},
				{QuestionID: "ghost", SelectedIndex: 1},
			},
			want: []model.AttemptAnswer{
				{QuestionID: "q1", SelectedIndex: 0},
			},
		},
		{
			name: "out of range index dropped",
			answers: []AnswerInput{
				{QuestionID: "q1", SelectedIndex: -1},
				{QuestionID: "q2", SelectedIndex: 6},
				{QuestionID: "q3", SelectedIndex: 5},
			},
			want: []model.AttemptAnswer{
				{QuestionID: "q3", SelectedIndex: 5},
			},
		},
		{
			name: "duplicate keeps last value at first position",
			answers: []AnswerInput{
				{QuestionID: "q1", SelectedIndex: 1},
				{QuestionID: "q2", SelectedIndex: 2},
				{QuestionID: "q1", SelectedIndex: 0},
			},
			want: []model.AttemptAnswer{
				{QuestionID: "q1", SelectedIndex: 0},
				{QuestionID: "q2", SelectedIndex: 2},
			},
		},
		{
			name: "invalid duplicate does not overwrite valid earlier answer",
			answers: []AnswerInput{
				{QuestionID: "q1", SelectedIndex: 0},
				{QuestionID: "q1", SelectedIndex: 9},
			},
			want: []model.AttemptAnswer{
				{QuestionID: "q1", SelectedIndex: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnswers(tt.answers, key)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d answers, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("answer[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestScoreAnswers(t *testing.T) {
	key := scoringKey()

	tests := []struct {
		name        string
		answers     []model.AttemptAnswer
		wantScore   int
		wantCorrect int
		wantWrong   int
	}{
		{
			name:      "no answers",
			answers:   nil,
			wantScore: 0,
		},
		{
			name: "all correct",
			answers: []model.AttemptAnswer{
				{QuestionID: "q1", SelectedIndex: 0},
				{QuestionID: "q2", SelectedIndex: 2},
				{QuestionID: "q3", SelectedIndex: 1},
			},
			wantScore:   10,
			wantCorrect: 3,
		},
		{
			name: "mixed with negative marking",
			answers: []model.AttemptAnswer{
				{QuestionID: "q1", SelectedIndex: 0},
				{QuestionID: "q2", SelectedIndex: 1},
				{QuestionID: "q3", SelectedIndex: 0},
			},
			wantScore:   3, // 4 - 1 - 0
			wantCorrect: 1,
			wantWrong:   2,
		},
		{
			name: "negative total clamped to zero",
			answers: []model.AttemptAnswer{
				{QuestionID: "q1", SelectedIndex: 1},
				{QuestionID: "q2", SelectedIndex: 1},
			},
			wantScore: 0,
			wantWrong: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, correct, wrong := ScoreAnswers(tt.answers, key)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if correct != tt.wantCorrect {
				t.Errorf("correctCount = %d, want %d", correct, tt.wantCorrect)
			}
			if wrong != tt.wantWrong {
				t.Errorf("wrongCount = %d, want %d", wrong, tt.wantWrong)
			}
		})
	}
}

func TestScoreAnswersUnansweredScoresNothing(t *testing.T) {
	key := scoringKey()

	// 只答一题，其余未作答：不加分也不扣分
	score, correct, wrong := ScoreAnswers([]model.AttemptAnswer{
		{QuestionID: "q3", SelectedIndex: 1},
	}, key)

	if score != 2 || correct != 1 || wrong != 0 {
		t.Errorf("got score=%d correct=%d wrong=%d, want 2/1/0", score, correct, wrong)
	}
}

func TestCheckStartWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name    string
		startAt *time.Time
		endAt   *time.Time
		wantErr error
	}{
		{name: "no bounds", wantErr: nil},
		{name: "inside window", startAt: &before, endAt: &after, wantErr: nil},
		{name: "not started yet", startAt: &after, wantErr: util.ErrExamNotStarted},
		{name: "already ended", endAt: &before, wantErr: util.ErrExamEnded},
		{name: "only start bound passed", startAt: &before, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam := &model.Exam{StartAt: tt.startAt, EndAt: tt.endAt}
			if err := CheckStartWindow(exam, now); err != tt.wantErr {
				t.Errorf("CheckStartWindow() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitDeadline(t *testing.T) {
	startedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("unlimited when duration is zero", func(t *testing.T) {
		exam := &model.Exam{DurationMinutes: 0}
		if _, ok := SubmitDeadline(exam, startedAt); ok {
			t.Error("expected no deadline for zero duration")
		}
	})

	t.Run("deadline is start plus duration", func(t *testing.T) {
		exam := &model.Exam{DurationMinutes: 90}
		deadline, ok := SubmitDeadline(exam, startedAt)
		if !ok {
			t.Fatal("expected a deadline")
		}
		want := startedAt.Add(90 * time.Minute)
		if !deadline.Equal(want) {
			t.Errorf("deadline = %v, want %v", deadline, want)
		}
	})
}

func TestEffectiveStatus(t *testing.T) {
	startedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   model.AttemptStatus
		duration int
		now      time.Time
		want     model.AttemptStatus
	}{
		{
			name:     "submitted stays submitted",
			status:   model.AttemptSubmitted,
			duration: 30,
			now:      startedAt.Add(2 * time.Hour),
			want:     model.AttemptSubmitted,
		},
		{
			name:     "started within deadline",
			status:   model.AttemptStarted,
			duration: 30,
			now:      startedAt.Add(10 * time.Minute),
			want:     model.AttemptStarted,
		},
		{
			name:     "started past deadline becomes expired",
			status:   model.AttemptStarted,
			duration: 30,
			now:      startedAt.Add(31 * time.Minute),
			want:     model.AttemptExpired,
		},
		{
			name:     "unlimited duration never expires",
			status:   model.AttemptStarted,
			duration: 0,
			now:      startedAt.Add(1000 * time.Hour),
			want:     model.AttemptStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveStatus(tt.status, startedAt, tt.duration, tt.now)
			if got != tt.want {
				t.Errorf("EffectiveStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortLeaderboard(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	t1 := base.Add(5 * time.Minute)
	t2 := base.Add(10 * time.Minute)
	t3 := base.Add(15 * time.Minute)

	rows := []LeaderboardEntry{
		{StudentID: 1, Score: 8, SubmittedAt: &t2},
		{StudentID: 2, Score: 10, SubmittedAt: &t3},
		{StudentID: 3, Score: 8, SubmittedAt: &t1},
		{StudentID: 4, Score: 10, SubmittedAt: &t1},
	}

	SortLeaderboard(rows)

	wantOrder := []uint{4, 2, 3, 1}
	for i, want := range wantOrder {
		if rows[i].StudentID != want {
			t.Errorf("rank %d = student %d, want %d", i+1, rows[i].StudentID, want)
		}
	}
}

func TestSortLeaderboardNilSubmittedAtLast(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	rows := []LeaderboardEntry{
		{StudentID: 1, Score: 5, SubmittedAt: nil},
		{StudentID: 2, Score: 5, SubmittedAt: &base},
	}

	SortLeaderboard(rows)

	if rows[0].StudentID != 2 || rows[1].StudentID != 1 {
		t.Errorf("expected submitted entry before nil, got order %d,%d", rows[0].StudentID, rows[1].StudentID)
	}
}

func TestScoringKeyFromQuestions(t *testing.T) {
	questions := []model.ExamQuestion{
		{UUIDBase: model.UUIDBase{ID: "a"}, CorrectIndex: 1, Marks: 3, NegativeMarks: 1},
		{UUIDBase: model.UUIDBase{ID: "b"}, CorrectIndex: 0, Marks: 5, NegativeMarks: 2},
	}

	key := ScoringKeyFromQuestions(questions)
	if len(key) != 2 {
		t.Fatalf("key size = %d, want 2", len(key))
	}
	if q := key["a"]; q.CorrectIndex != 1 || q.Marks != 3 || q.NegativeMarks != 1 {
		t.Errorf("key[a] = %+v", q)
	}
	if q := key["b"]; q.CorrectIndex != 0 || q.Marks != 5 || q.NegativeMarks != 2 {
		t.Errorf("key[b] = %+v", q)
	}
}
