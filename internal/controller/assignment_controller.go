package controller

import (
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// Create godoc
// @Summary 创建作业
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Param   body body service.AssignmentReq true "作业信息"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/batches/{batchId}/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.AssignmentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Create(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role, req)
	if err != nil {
		if err == util.ErrBatchNotFound || err == util.ErrPermissionDenied {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, assignment)
}

// Update godoc
// @Summary 更新作业
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作业 ID"
// @Param   body body service.AssignmentReq true "作业信息"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 404 {object} util.Response "作业不存在"
// @Router /api/teacher/assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.AssignmentReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Update(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, assignment)
}

// AttachFile godoc
// @Summary 上传作业附件
// @Tags 作业
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作业 ID"
// @Param   file formData file true "附件文件"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 400 {object} util.Response "文件不合法"
// @Router /api/teacher/assignments/{id}/attachment [post]
func (c *AssignmentController) AttachFile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	assignment, err := c.AssignmentService.AttachFile(ctx.Request.Context(), ctx.Param("id"), claims.UserID, claims.Role, file)
	if err != nil {
		if err == util.ErrAssignmentNotFound || err == util.ErrPermissionDenied || err == util.ErrBatchNotFound {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, assignment)
}

// Publish godoc
// @Summary 发布作业
// @Description 发布后对批次内学生可见并推送通知
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作业 ID"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 404 {object} util.Response "作业不存在"
// @Router /api/teacher/assignments/{id}/publish [post]
func (c *AssignmentController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	assignment, err := c.AssignmentService.Publish(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, assignment)
}

// Delete godoc
// @Summary 删除作业
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作业 ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.AssignmentService.Delete(ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Get godoc
// @Summary 作业详情
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作业 ID"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 404 {object} util.Response "作业不存在"
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	assignment, err := c.AssignmentService.Get(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, assignment)
}

// ListByBatch godoc
// @Summary 批次作业列表
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/batches/{batchId}/assignments [get]
func (c *AssignmentController) ListByBatch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	assignments, err := c.AssignmentService.ListByBatch(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, assignments)
}

// Submit godoc
// @Summary 提交作业
// @Description 截止前可重复提交，新文件覆盖旧文件并清空评分
// @Tags 作业
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作业 ID"
// @Param   note formData string false "提交说明"
// @Param   file formData file true "作业文件"
// @Success 201 {object} util.Response{data=model.AssignmentSubmission}
// @Failure 400 {object} util.Response "已过截止时间或文件不合法"
// @Router /api/assignments/{id}/submit [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	submission, err := c.AssignmentService.SubmitFile(ctx.Request.Context(), ctx.Param("id"), claims.UserID, ctx.PostForm("note"), file)
	if err != nil {
		if err == util.ErrAssignmentNotFound || err == util.ErrNotEnrolled {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, submission)
}

// GetMySubmission godoc
// @Summary 我的作业提交
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作业 ID"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Failure 404 {object} util.Response "尚未提交"
// @Router /api/assignments/{id}/submissions/me [get]
func (c *AssignmentController) GetMySubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	submission, err := c.AssignmentService.GetMySubmission(ctx.Param("id"), claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, submission)
}

// ListSubmissions godoc
// @Summary 作业提交列表
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "作业 ID"
// @Success 200 {object} util.Response{data=[]repository.SubmissionWithStudent}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rows, err := c.AssignmentService.ListSubmissions(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// GradeSubmission godoc
// @Summary 批改作业
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "提交 ID"
// @Param   body body service.AssignmentGradeReq true "评分与评语"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Failure 404 {object} util.Response "提交不存在"
// @Router /api/teacher/submissions/{id}/grade [post]
func (c *AssignmentController) GradeSubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.AssignmentGradeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.AssignmentService.GradeSubmission(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		if err == util.ErrSubmissionNotFound || err == util.ErrAssignmentNotFound || err == util.ErrPermissionDenied || err == util.ErrBatchNotFound {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, submission)
}
