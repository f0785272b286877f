package controller

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// enrollmentManager 报名服务的窄接口，便于替换实现
type enrollmentManager interface {
	Enroll(batchID, studentID uint, message string) (*model.Enrollment, error)
	Approve(enrollmentID, deciderID uint, role model.UserRole) (*model.Enrollment, error)
	Reject(enrollmentID, deciderID uint, role model.UserRole) (*model.Enrollment, error)
	ListMine(studentID uint) ([]model.Enrollment, error)
	ListByBatch(batchID, userID uint, role model.UserRole, status string) ([]repository.EnrollmentWithStudent, error)
}

type EnrollmentController struct {
	EnrollmentService enrollmentManager
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

type EnrollRequest struct {
	Message string `json:"message"`
}

// Enroll godoc
// @Summary 申请加入批次
// @Description 学生提交报名申请，等待教师审核
// @Tags 报名
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Param   body body EnrollRequest false "附言"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "批次不存在"
// @Failure 409 {object} util.Response "已报名"
// @Failure 422 {object} util.Response "批次已归档"
// @Router /api/batches/{batchId}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(util.MustParseUint(ctx.Param("batchId")), claims.UserID, req.Message)
	if err != nil {
		// 重复报名时把已有记录带回给客户端
		if errors.Is(err, util.ErrAlreadyEnrolled) {
			util.Conflict(ctx, "already enrolled", enrollment)
			return
		}
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// Approve godoc
// @Summary 审核通过报名
// @Description 名额已满时返回 409
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名 ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "报名不存在"
// @Failure 409 {object} util.Response "名额已满"
// @Failure 422 {object} util.Response "已审核过"
// @Router /api/teacher/enrollments/{id}/approve [post]
func (c *EnrollmentController) Approve(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.EnrollmentService.Approve(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// Reject godoc
// @Summary 驳回报名
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "报名 ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response "报名不存在"
// @Failure 422 {object} util.Response "已审核过"
// @Router /api/teacher/enrollments/{id}/reject [post]
func (c *EnrollmentController) Reject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.EnrollmentService.Reject(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// ListMine godoc
// @Summary 我的报名记录
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments/me [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := c.EnrollmentService.ListMine(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, enrollments)
}

// ListByBatch godoc
// @Summary 批次报名列表
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Param   status query string false "状态过滤 pending/approved/rejected"
// @Success 200 {object} util.Response{data=[]repository.EnrollmentWithStudent}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/batches/{batchId}/enrollments [get]
func (c *EnrollmentController) ListByBatch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rows, err := c.EnrollmentService.ListByBatch(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role, ctx.Query("status"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}
