package controller

import (
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LiveClassController struct {
	LiveClassService *service.LiveClassService
}

func NewLiveClassController(liveClassService *service.LiveClassService) *LiveClassController {
	return &LiveClassController{LiveClassService: liveClassService}
}

// Create godoc
// @Summary 排直播课
// @Description 排课成功后通知批次内学生
// @Tags 直播课
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Param   body body service.LiveClassReq true "排课信息"
// @Success 201 {object} util.Response{data=model.LiveClass}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/batches/{batchId}/live-classes [post]
func (c *LiveClassController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.LiveClassReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	liveClass, err := c.LiveClassService.Create(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role, req)
	if err != nil {
		if err == util.ErrBatchNotFound || err == util.ErrPermissionDenied {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, liveClass)
}

// Update godoc
// @Summary 更新直播课
// @Description 改期时自动通知批次内学生
// @Tags 直播课
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "直播课 ID"
// @Param   body body service.LiveClassReq true "排课信息"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 404 {object} util.Response "直播课不存在"
// @Router /api/teacher/live-classes/{id} [put]
func (c *LiveClassController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.LiveClassReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	liveClass, err := c.LiveClassService.Update(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, liveClass)
}

// Delete godoc
// @Summary 删除直播课
// @Tags 直播课
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "直播课 ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/live-classes/{id} [delete]
func (c *LiveClassController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.LiveClassService.Delete(ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Get godoc
// @Summary 直播课详情
// @Tags 直播课
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "直播课 ID"
// @Success 200 {object} util.Response{data=model.LiveClass}
// @Failure 404 {object} util.Response "直播课不存在"
// @Router /api/live-classes/{id} [get]
func (c *LiveClassController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	liveClass, err := c.LiveClassService.Get(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, liveClass)
}

// ListByBatch godoc
// @Summary 批次直播课列表
// @Tags 直播课
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Success 200 {object} util.Response{data=[]model.LiveClass}
// @Router /api/batches/{batchId}/live-classes [get]
func (c *LiveClassController) ListByBatch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classes, err := c.LiveClassService.ListByBatch(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, classes)
}

// MarkAttendance godoc
// @Summary 直播课点名
// @Description 同一学生重复标记以最后一次为准
// @Tags 直播课
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "直播课 ID"
// @Param   body body service.AttendanceReq true "出勤标记"
// @Success 200 {object} util.Response{data=model.Attendance}
// @Failure 403 {object} util.Response "学生未在批次内"
// @Router /api/teacher/live-classes/{id}/attendance [post]
func (c *LiveClassController) MarkAttendance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.AttendanceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attendance, err := c.LiveClassService.MarkAttendance(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, attendance)
}

// ListAttendance godoc
// @Summary 直播课出勤表
// @Tags 直播课
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "直播课 ID"
// @Success 200 {object} util.Response{data=[]repository.AttendanceWithStudent}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/live-classes/{id}/attendance [get]
func (c *LiveClassController) ListAttendance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rows, err := c.LiveClassService.ListAttendance(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// MyAttendance godoc
// @Summary 我的出勤记录
// @Tags 直播课
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Success 200 {object} util.Response{data=[]model.Attendance}
// @Router /api/batches/{batchId}/attendance/me [get]
func (c *LiveClassController) MyAttendance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	records, err := c.LiveClassService.MyAttendance(util.MustParseUint(ctx.Param("batchId")), claims.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, records)
}
