package controller

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BatchController struct {
	BatchService *service.BatchService
}

func NewBatchController(batchService *service.BatchService) *BatchController {
	return &BatchController{BatchService: batchService}
}

// Create godoc
// @Summary 创建批次
// @Description 在课程下开设新批次并指派授课教师
// @Tags 批次
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程 ID"
// @Param   body body service.BatchReq true "批次信息"
// @Success 201 {object} util.Response{data=model.Batch}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id}/batches [post]
func (c *BatchController) Create(ctx *gin.Context) {
	var req service.BatchReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	batch, err := c.BatchService.Create(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if err == util.ErrCourseNotFound || err == util.ErrUserNotFound {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, batch)
}

// Update godoc
// @Summary 更新批次
// @Tags 批次
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "批次 ID"
// @Param   body body service.BatchReq true "批次信息"
// @Success 200 {object} util.Response{data=model.Batch}
// @Failure 404 {object} util.Response "批次不存在"
// @Router /api/admin/batches/{id} [put]
func (c *BatchController) Update(ctx *gin.Context) {
	var req service.BatchReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	batch, err := c.BatchService.Update(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, batch)
}

// Archive godoc
// @Summary 归档批次
// @Description 归档后批次不再接受新报名
// @Tags 批次
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "批次 ID"
// @Success 200 {object} util.Response{data=model.Batch}
// @Failure 404 {object} util.Response "批次不存在"
// @Router /api/admin/batches/{id}/archive [post]
func (c *BatchController) Archive(ctx *gin.Context) {
	batch, err := c.BatchService.Archive(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, batch)
}

// Delete godoc
// @Summary 删除批次
// @Tags 批次
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "批次 ID"
// @Success 200 {object} util.Response
// @Router /api/admin/batches/{id} [delete]
func (c *BatchController) Delete(ctx *gin.Context) {
	if err := c.BatchService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Get godoc
// @Summary 批次详情
// @Tags 批次
// @Produce  json
// @Param   batchId path int true "批次 ID"
// @Success 200 {object} util.Response{data=model.Batch}
// @Failure 404 {object} util.Response "批次不存在"
// @Router /api/batches/{batchId} [get]
func (c *BatchController) Get(ctx *gin.Context) {
	batch, err := c.BatchService.Get(util.MustParseUint(ctx.Param("batchId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, batch)
}

// ListByCourse godoc
// @Summary 课程下的批次列表
// @Tags 批次
// @Produce  json
// @Param   id path int true "课程 ID"
// @Success 200 {object} util.Response{data=[]model.Batch}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/batches [get]
func (c *BatchController) ListByCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	includeArchived := claims != nil && claims.Role != model.Student

	batches, err := c.BatchService.ListByCourse(util.MustParseUint(ctx.Param("id")), includeArchived)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, batches)
}

// ListMine godoc
// @Summary 我授课的批次
// @Tags 批次
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Batch}
// @Router /api/teacher/batches [get]
func (c *BatchController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	batches, err := c.BatchService.ListByTeacher(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, batches)
}

// SeatInfo godoc
// @Summary 批次名额情况
// @Tags 批次
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Success 200 {object} util.Response{data=service.BatchSeatInfo}
// @Failure 404 {object} util.Response "批次不存在"
// @Router /api/batches/{batchId}/seats [get]
func (c *BatchController) SeatInfo(ctx *gin.Context) {
	info, err := c.BatchService.SeatInfo(util.MustParseUint(ctx.Param("batchId")))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, info)
}
