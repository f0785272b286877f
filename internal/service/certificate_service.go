package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"coachly_backend/pkg/logger"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CertificateService struct {
	CertificateRepo *repository.CertificateRepository
	BatchRepo       *repository.BatchRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	Notification    *NotificationService
}

func NewCertificateService(
	certificateRepo *repository.CertificateRepository,
	batchRepo *repository.BatchRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	notification *NotificationService,
) *CertificateService {
	return &CertificateService{
		CertificateRepo: certificateRepo,
		BatchRepo:       batchRepo,
		EnrollmentRepo:  enrollmentRepo,
		Notification:    notification,
	}
}

type IssueCertificateReq struct {
	StudentID uint   `json:"studentId" binding:"required"`
	Remark    string `json:"remark"`
}

// Issue 为批次内学生签发结业证书，每人每批次仅一张
func (s *CertificateService) Issue(batchID uint, issuerID uint, role model.UserRole, req IssueCertificateReq) (*model.Certificate, error) {
	if err := assertBatchOwner(s.BatchRepo, batchID, issuerID, role); err != nil {
		return nil, err
	}
	approved, err := s.EnrollmentRepo.HasApproved(batchID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, util.ErrNotEnrolled
	}

	if existing, err := s.CertificateRepo.FindByBatchAndStudent(batchID, req.StudentID); err == nil && existing != nil {
		return nil, util.ErrCertificateExists
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	certificate := &model.Certificate{
		BatchID:   batchID,
		StudentID: req.StudentID,
		Serial:    uuid.New().String(),
		IssuedBy:  issuerID,
		IssuedAt:  time.Now(),
		Remark:    req.Remark,
	}
	if err := s.CertificateRepo.Create(certificate); err != nil {
		if repository.IsDuplicateKeyError(err) {
			return nil, util.ErrCertificateExists
		}
		return nil, err
	}

	if err := s.Notification.NotifyUser(req.StudentID, batchID, model.NotifyCertificate, certificate.ID,
		"证书签发", "你的结业证书已签发，编号："+certificate.Serial); err != nil {
		logger.Log.Warn("证书签发通知失败", zap.String("certificateId", certificate.ID), zap.Error(err))
	}
	return certificate, nil
}

func (s *CertificateService) ListMine(studentID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByStudent(studentID)
}

func (s *CertificateService) ListByBatch(batchID uint, userID uint, role model.UserRole) ([]repository.CertificateWithStudent, error) {
	if err := assertBatchOwner(s.BatchRepo, batchID, userID, role); err != nil {
		return nil, err
	}
	return s.CertificateRepo.ListByBatch(batchID)
}

// Verify 凭编号公开校验证书真伪
func (s *CertificateService) Verify(serial string) (*model.Certificate, error) {
	certificate, err := s.CertificateRepo.FindBySerial(serial)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}
	return certificate, nil
}
