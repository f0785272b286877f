package controller

import (
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExamSubmissionController struct {
	SubmissionService *service.ExamSubmissionService
	Storage           *service.StorageService
}

func NewExamSubmissionController(submissionService *service.ExamSubmissionService, storage *service.StorageService) *ExamSubmissionController {
	return &ExamSubmissionController{SubmissionService: submissionService, Storage: storage}
}

// Submit godoc
// @Summary 提交 PDF 答卷
// @Description 窗口内可重复提交，新文件覆盖旧文件
// @Tags PDF考试
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   examId path string true "考试 ID"
// @Param   file formData file true "PDF 文件"
// @Success 201 {object} util.Response{data=model.ExamSubmission}
// @Failure 400 {object} util.Response "文件不合法"
// @Failure 403 {object} util.Response "未报名或考试未发布"
// @Failure 422 {object} util.Response "不在考试时间窗口内"
// @Router /api/exams/{examId}/submissions [post]
func (c *ExamSubmissionController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	examID := ctx.Param("examId")

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if file.Size > util.MaxAttachmentSizeBytes {
		util.BadRequest(ctx, "file too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	mimeType, err := util.ValidateMimeType(src, []string{util.MimePDF})
	src.Close()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	src, err = file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()
	filename := fmt.Sprintf("exam-submissions/%s/%d_%s%s", examID, claims.UserID, uuid.New().String(), filepath.Ext(util.SafeFilename(file.Filename)))
	url, err := c.Storage.Upload(ctx.Request.Context(), filename, src, file.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	submission, err := c.SubmissionService.Submit(examID, claims.UserID, url)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, submission)
}

// GetMine godoc
// @Summary 我的 PDF 答卷
// @Tags PDF考试
// @Produce  json
// @Security BearerAuth
// @Param   examId path string true "考试 ID"
// @Success 200 {object} util.Response{data=model.ExamSubmission}
// @Failure 404 {object} util.Response "尚未提交"
// @Router /api/exams/{examId}/submissions/me [get]
func (c *ExamSubmissionController) GetMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	submission, err := c.SubmissionService.GetMine(ctx.Param("examId"), claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

// ListByExam godoc
// @Summary 考试答卷列表
// @Tags PDF考试
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "考试 ID"
// @Success 200 {object} util.Response{data=[]repository.PDFSubmissionRow}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/exams/{id}/submissions [get]
func (c *ExamSubmissionController) ListByExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rows, err := c.SubmissionService.ListByExam(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// Grade godoc
// @Summary 批改 PDF 答卷
// @Tags PDF考试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "答卷 ID"
// @Param   body body service.GradeReq true "评分与评语"
// @Success 200 {object} util.Response{data=model.ExamSubmission}
// @Failure 404 {object} util.Response "答卷不存在"
// @Router /api/teacher/exam-submissions/{id}/grade [post]
func (c *ExamSubmissionController) Grade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.GradeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.SubmissionService.Grade(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}
