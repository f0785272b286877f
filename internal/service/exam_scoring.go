package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/util"
	"sort"
	"time"
)

// AnswerInput 学生提交的单题作答
type AnswerInput struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex int    `json:"selectedIndex"`
}

// ScoringQuestion 评分所需的题目字段，不含题干与选项文本
type ScoringQuestion struct {
	CorrectIndex  int
	Marks         int
	NegativeMarks int
}

// ScoringKeyFromQuestions 构建题目ID到评分字段的映射
func ScoringKeyFromQuestions(questions []model.ExamQuestion) map[string]ScoringQuestion {
	key := make(map[string]ScoringQuestion, len(questions))
	for _, q := range questions {
		key[q.ID] = ScoringQuestion{
			CorrectIndex:  q.CorrectIndex,
			Marks:         q.Marks,
			NegativeMarks: q.NegativeMarks,
		}
	}
	return key
}

// NormalizeAnswers 过滤并去重作答列表：
//   - 丢弃引用不存在题目的作答
//   - 丢弃 selectedIndex 超出 [0, MaxOptionIndex] 的作答（上限是全平台常量，
//     与单题实际选项数无关）
//   - 同一题多次作答时保留最后一次（按输入顺序），位置保持首次出现处
//
// 非法作答静默丢弃，提交整体仍然成功。
func NormalizeAnswers(answers []AnswerInput, key map[string]ScoringQuestion) []model.AttemptAnswer {
	normalized := make([]model.AttemptAnswer, 0, len(answers))
	position := make(map[string]int, len(answers))

	for _, a := range answers {
		if _, ok := key[a.QuestionID]; !ok {
			continue
		}
		if a.SelectedIndex < 0 || a.SelectedIndex > util.MaxOptionIndex {
			continue
		}
		if idx, seen := position[a.QuestionID]; seen {
			normalized[idx].SelectedIndex = a.SelectedIndex
			continue
		}
		position[a.QuestionID] = len(normalized)
		normalized = append(normalized, model.AttemptAnswer{
			QuestionID:    a.QuestionID,
			SelectedIndex: a.SelectedIndex,
		})
	}

	return normalized
}

// ScoreAnswers 对归一化作答计分：答对加 marks，答错扣 negativeMarks，
// 总分为负时压到零（只在最终结果上压，不逐题压）。
func ScoreAnswers(normalized []model.AttemptAnswer, key map[string]ScoringQuestion) (score, correctCount, wrongCount int) {
	for _, a := range normalized {
		q, ok := key[a.QuestionID]
		if !ok {
			continue
		}
		if a.SelectedIndex == q.CorrectIndex {
			score += q.Marks
			correctCount++
		} else {
			score -= q.NegativeMarks
			wrongCount++
		}
	}
	if score < 0 {
		score = 0
	}
	return score, correctCount, wrongCount
}

// CheckStartWindow 校验当前时间是否在考试开考窗口内；
// 未设置的一侧视为无界。
func CheckStartWindow(exam *model.Exam, now time.Time) error {
	if exam.StartAt != nil && now.Before(*exam.StartAt) {
		return util.ErrExamNotStarted
	}
	if exam.EndAt != nil && now.After(*exam.EndAt) {
		return util.ErrExamEnded
	}
	return nil
}

// SubmitDeadline 单次答题的提交截止时间：开始时间加考试时长。
// 与考试级 endAt 无关，duration 为 0 时不限时。
func SubmitDeadline(exam *model.Exam, startedAt time.Time) (time.Time, bool) {
	if exam.DurationMinutes <= 0 {
		return time.Time{}, false
	}
	return startedAt.Add(time.Duration(exam.DurationMinutes) * time.Minute), true
}

// EffectiveStatus 读取时推导的状态：超过截止仍未提交的记录显示为 expired，
// 不落库。
func EffectiveStatus(status model.AttemptStatus, startedAt time.Time, durationMinutes int, now time.Time) model.AttemptStatus {
	if status != model.AttemptStarted || durationMinutes <= 0 {
		return status
	}
	deadline := startedAt.Add(time.Duration(durationMinutes) * time.Minute)
	if now.After(deadline) {
		return model.AttemptExpired
	}
	return status
}

// SortLeaderboard 排行排序：分数降序，同分先交者在前。
func SortLeaderboard(rows []LeaderboardEntry) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		si, sj := rows[i].SubmittedAt, rows[j].SubmittedAt
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return si.Before(*sj)
		}
	})
}

// LeaderboardEntry 排行条目
type LeaderboardEntry struct {
	AttemptID    uint       `json:"attemptId"`
	StudentID    uint       `json:"studentId"`
	StudentName  string     `json:"studentName"`
	Score        int        `json:"score"`
	CorrectCount int        `json:"correctCount"`
	WrongCount   int        `json:"wrongCount"`
	StartedAt    time.Time  `json:"startedAt"`
	SubmittedAt  *time.Time `json:"submittedAt"`
}
