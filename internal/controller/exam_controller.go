package controller

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// Create godoc
// @Summary 创建考试
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Param   body body service.ExamReq true "考试信息"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/batches/{batchId}/exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.ExamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.CreateExam(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role, req)
	if err != nil {
		if err == util.ErrBatchNotFound || err == util.ErrPermissionDenied {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, exam)
}

// Update godoc
// @Summary 更新考试
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Param   body body service.ExamReq true "考试信息"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/teacher/exams/{id} [put]
func (c *ExamController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.ExamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.UpdateExam(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, exam)
}

// Publish godoc
// @Summary 发布考试
// @Description 发布后学生可见并推送通知，扇出失败不影响发布
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/teacher/exams/{id}/publish [post]
func (c *ExamController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ExamService.PublishExam(ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Delete godoc
// @Summary 删除考试
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{id} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ExamService.DeleteExam(ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Get godoc
// @Summary 考试详情（教学端）
// @Description 含题目与参考答案
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "考试不存在"
// @Router /api/teacher/exams/{id} [get]
func (c *ExamController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	exam, questions, err := c.ExamService.GetExam(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"exam": exam, "questions": questions})
}

// ListByBatch godoc
// @Summary 批次考试列表
// @Description 学生端仅返回已发布考试
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Success 200 {object} util.Response{data=[]model.Exam}
// @Router /api/batches/{batchId}/exams [get]
func (c *ExamController) ListByBatch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	publishedOnly := claims.Role == model.Student

	exams, err := c.ExamService.ListExams(util.MustParseUint(ctx.Param("batchId")), publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, exams)
}

// AddQuestion godoc
// @Summary 添加题目
// @Description 选项 2~6 个，总分自动重算
// @Tags 考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Param   body body service.QuestionReq true "题目内容"
// @Success 201 {object} util.Response{data=model.ExamQuestion}
// @Failure 400 {object} util.Response "题目不合法"
// @Router /api/teacher/exams/{id}/questions [post]
func (c *ExamController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.ExamService.AddQuestion(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		if err == util.ErrExamNotFound || err == util.ErrPermissionDenied || err == util.ErrBatchNotFound {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "题目 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/questions/{id} [delete]
func (c *ExamController) DeleteQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ExamService.DeleteQuestion(ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Questions godoc
// @Summary 学生取题
// @Description 不含参考答案，窗口内可取，结果走 Redis 缓存
// @Tags 考试
// @Produce  json
// @Security BearerAuth
// @Param   examId path string true "考试 ID"
// @Success 200 {object} util.Response{data=[]service.StudentQuestion}
// @Failure 403 {object} util.Response "未报名或考试未发布"
// @Failure 422 {object} util.Response "不在考试时间窗口内"
// @Router /api/exams/{examId}/questions [get]
func (c *ExamController) Questions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	questions, err := c.ExamService.QuestionsForStudent(ctx.Param("examId"), claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}
