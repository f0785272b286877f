package controller

import (
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// Create godoc
// @Summary 创建课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Param   body body service.LessonReq true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/batches/{batchId}/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Create(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role, req)
	if err != nil {
		if err == util.ErrBatchNotFound || err == util.ErrPermissionDenied {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, lesson)
}

// Update godoc
// @Summary 更新课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时 ID"
// @Param   body body service.LessonReq true "课时信息"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/teacher/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// Publish godoc
// @Summary 发布课时
// @Description 发布后对批次内学生可见并推送通知
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时 ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/teacher/lessons/{id}/publish [post]
func (c *LessonController) Publish(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lesson, err := c.LessonService.Publish(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary 删除课时
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时 ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.LessonService.Delete(ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Get godoc
// @Summary 课时详情
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时 ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lesson, err := c.LessonService.Get(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// ListByBatch godoc
// @Summary 批次课时列表
// @Description 学生端仅返回已发布课时
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/batches/{batchId}/lessons [get]
func (c *LessonController) ListByBatch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessons, err := c.LessonService.ListByBatch(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, lessons)
}

// AddMaterial godoc
// @Summary 添加文本/链接资料
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时 ID"
// @Param   body body service.MaterialReq true "资料内容"
// @Success 201 {object} util.Response{data=model.Material}
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/teacher/lessons/{id}/materials [post]
func (c *LessonController) AddMaterial(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.MaterialReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	material, err := c.LessonService.AddMaterial(ctx.Param("id"), claims.UserID, claims.Role, req)
	if err != nil {
		if err == util.ErrLessonNotFound || err == util.ErrPermissionDenied || err == util.ErrBatchNotFound {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, material)
}

// UploadMaterial godoc
// @Summary 上传视频/PDF 资料
// @Tags 课时
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时 ID"
// @Param   title formData string false "资料标题"
// @Param   file formData file true "视频或 PDF 文件"
// @Success 201 {object} util.Response{data=model.Material}
// @Failure 400 {object} util.Response "文件不合法"
// @Router /api/teacher/lessons/{id}/materials/upload [post]
func (c *LessonController) UploadMaterial(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	material, err := c.LessonService.UploadMaterial(ctx.Request.Context(), ctx.Param("id"), claims.UserID, claims.Role, ctx.PostForm("title"), file)
	if err != nil {
		if err == util.ErrLessonNotFound || err == util.ErrPermissionDenied || err == util.ErrBatchNotFound {
			respondServiceError(ctx, err)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, material)
}

// DeleteMaterial godoc
// @Summary 删除资料
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "资料 ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/materials/{id} [delete]
func (c *LessonController) DeleteMaterial(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.LessonService.DeleteMaterial(ctx.Request.Context(), ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// ListMaterials godoc
// @Summary 课时资料列表
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时 ID"
// @Success 200 {object} util.Response{data=[]model.Material}
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id}/materials [get]
func (c *LessonController) ListMaterials(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	materials, err := c.LessonService.ListMaterials(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, materials)
}
