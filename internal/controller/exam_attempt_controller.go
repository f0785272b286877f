package controller

import (
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"
	"coachly_backend/pkg/monitoring"
	"errors"

	"github.com/gin-gonic/gin"
)

type ExamAttemptController struct {
	AttemptService *service.ExamAttemptService
	ExamService    *service.ExamService
}

func NewExamAttemptController(attemptService *service.ExamAttemptService, examService *service.ExamService) *ExamAttemptController {
	return &ExamAttemptController{AttemptService: attemptService, ExamService: examService}
}

// Start godoc
// @Summary 开始答题
// @Description 每人每场一条记录；重复开始返回 409 并附带已有记录
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   examId path string true "考试 ID"
// @Success 201 {object} util.Response{data=service.StartAttemptResult} "开始成功"
// @Failure 403 {object} util.Response "未报名或考试未发布"
// @Failure 404 {object} util.Response "考试不存在"
// @Failure 409 {object} util.Response{data=service.StartAttemptResult} "已开始过"
// @Failure 422 {object} util.Response "不在考试时间窗口内"
// @Router /api/exams/{examId}/start [post]
func (c *ExamAttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	result, err := c.AttemptService.StartAttempt(ctx.Param("examId"), claims.UserID)
	if err != nil {
		monitoring.ExamAttemptCounter.WithLabelValues("start", "rejected").Inc()
		respondServiceError(ctx, err)
		return
	}

	if result.AlreadyExists {
		monitoring.ExamAttemptCounter.WithLabelValues("start", "duplicate").Inc()
		util.Conflict(ctx, "attempt already exists", result)
		return
	}

	monitoring.ExamAttemptCounter.WithLabelValues("start", "created").Inc()
	util.Created(ctx, result)
}

// SubmitRequest 提交请求
// swagger:model SubmitRequest
type SubmitRequest struct {
	Answers []service.AnswerInput `json:"answers"`
}

// Submit godoc
// @Summary 提交答卷
// @Description 一次性提交并计分；重复提交返回 409
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   examId path string true "考试 ID"
// @Param   body body SubmitRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.SubmitAttemptResult} "成绩"
// @Failure 404 {object} util.Response "考试或答题记录不存在"
// @Failure 409 {object} util.Response "已提交过"
// @Failure 422 {object} util.Response "超出答题时限或考试窗口"
// @Router /api/exams/{examId}/submit [post]
func (c *ExamAttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.SubmitAttempt(ctx.Param("examId"), claims.UserID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptSubmitted):
			monitoring.ExamAttemptCounter.WithLabelValues("submit", "duplicate").Inc()
		case errors.Is(err, util.ErrAttemptDeadlinePassed):
			monitoring.ExamAttemptCounter.WithLabelValues("submit", "late").Inc()
		default:
			monitoring.ExamAttemptCounter.WithLabelValues("submit", "rejected").Inc()
		}
		respondServiceError(ctx, err)
		return
	}

	monitoring.ExamAttemptCounter.WithLabelValues("submit", "scored").Inc()
	util.Success(ctx, result)
}

// MyResults godoc
// @Summary 我的成绩
// @Description 可按批次过滤；超时未交的记录状态显示为 expired
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   batchId query int false "批次 ID"
// @Success 200 {object} util.Response{data=[]service.MyResultRow}
// @Router /api/attempts/me [get]
func (c *ExamAttemptController) MyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var batchID uint
	if v := ctx.Query("batchId"); v != "" {
		batchID = util.MustParseUint(v)
	}

	rows, err := c.AttemptService.ListMyResults(claims.UserID, batchID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// Leaderboard godoc
// @Summary 考试成绩排行
// @Description 分数降序，同分先交者在前
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Failure 403 {object} util.Response "非本批次教师"
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/teacher/exams/{id}/results [get]
func (c *ExamAttemptController) Leaderboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	// 兼容两种绑定：/exams/:id/results 与 /attempts?examId=
	examID := ctx.Param("id")
	if examID == "" {
		examID = ctx.Query("examId")
	}
	if examID == "" {
		util.BadRequest(ctx, "examId is required")
		return
	}

	exam, _, err := c.ExamService.GetExam(examID, claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	entries, err := c.AttemptService.ListResultsForExam(exam.ID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
