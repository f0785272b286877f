package controller

import (
	"coachly_backend/internal/service"
	"coachly_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// Issue godoc
// @Summary 签发结业证书
// @Description 每名学生每批次仅一张
// @Tags 证书
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Param   body body service.IssueCertificateReq true "学生与备注"
// @Success 201 {object} util.Response{data=model.Certificate}
// @Failure 403 {object} util.Response "学生未在批次内"
// @Failure 409 {object} util.Response "已签发过"
// @Router /api/teacher/batches/{batchId}/certificates [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.IssueCertificateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	certificate, err := c.CertificateService.Issue(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role, req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, certificate)
}

// ListMine godoc
// @Summary 我的证书
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/certificates/me [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	certificates, err := c.CertificateService.ListMine(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, certificates)
}

// ListByBatch godoc
// @Summary 批次证书列表
// @Tags 证书
// @Produce  json
// @Security BearerAuth
// @Param   batchId path int true "批次 ID"
// @Success 200 {object} util.Response{data=[]repository.CertificateWithStudent}
// @Failure 403 {object} util.Response "非本批次教师"
// @Router /api/teacher/batches/{batchId}/certificates [get]
func (c *CertificateController) ListByBatch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rows, err := c.CertificateService.ListByBatch(util.MustParseUint(ctx.Param("batchId")), claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}

// Verify godoc
// @Summary 证书验真
// @Description 公开接口，凭证书编号校验
// @Tags 证书
// @Produce  json
// @Param   serial path string true "证书编号"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response "证书不存在"
// @Router /api/certificates/verify/{serial} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	certificate, err := c.CertificateService.Verify(ctx.Param("serial"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, certificate)
}
