package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// EnrollmentService 批次报名流程：学生申请，教师/管理员审批，
// 名额在审批通过时校验。
type EnrollmentService struct {
	Repo         *repository.EnrollmentRepository
	BatchRepo    *repository.BatchRepository
	Notification *NotificationService
}

func NewEnrollmentService(repo *repository.EnrollmentRepository, batchRepo *repository.BatchRepository, notification *NotificationService) *EnrollmentService {
	return &EnrollmentService{Repo: repo, BatchRepo: batchRepo, Notification: notification}
}

// Enroll 学生申请加入批次，重复申请返回已有记录
func (s *EnrollmentService) Enroll(batchID, studentID uint, message string) (*model.Enrollment, error) {
	batch, err := s.BatchRepo.FindByID(batchID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrBatchNotFound
		}
		return nil, err
	}
	if batch.IsArchived {
		return nil, util.ErrBatchArchived
	}

	existing, err := s.Repo.FindByBatchAndStudent(batchID, studentID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if existing != nil {
		return existing, util.ErrAlreadyEnrolled
	}

	enrollment := &model.Enrollment{
		BatchID:   batchID,
		StudentID: studentID,
		Status:    model.EnrollmentPending,
		Message:   message,
	}
	if err := s.Repo.Create(enrollment); err != nil {
		if repository.IsDuplicateKeyError(err) {
			existing, ferr := s.Repo.FindByBatchAndStudent(batchID, studentID)
			if ferr != nil {
				return nil, ferr
			}
			return existing, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

// SeatAvailable 名额校验：0 表示不限
func SeatAvailable(seatLimit int, approvedCount int64) bool {
	if seatLimit <= 0 {
		return true
	}
	return approvedCount < int64(seatLimit)
}

// Approve 审批通过；超出名额返回 ErrBatchFull
func (s *EnrollmentService) Approve(enrollmentID, deciderID uint, role model.UserRole) (*model.Enrollment, error) {
	return s.decide(enrollmentID, deciderID, role, model.EnrollmentApproved)
}

// Reject 审批拒绝
func (s *EnrollmentService) Reject(enrollmentID, deciderID uint, role model.UserRole) (*model.Enrollment, error) {
	return s.decide(enrollmentID, deciderID, role, model.EnrollmentRejected)
}

func (s *EnrollmentService) decide(enrollmentID, deciderID uint, role model.UserRole, status model.EnrollmentStatus) (*model.Enrollment, error) {
	enrollment, err := s.Repo.FindByID(enrollmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.Status != model.EnrollmentPending {
		return nil, util.ErrEnrollmentDecided
	}

	batch, err := s.BatchRepo.FindByID(enrollment.BatchID)
	if err != nil {
		return nil, err
	}
	if role != model.Admin && batch.TeacherID != deciderID {
		return nil, util.ErrPermissionDenied
	}

	if status == model.EnrollmentApproved {
		approvedCount, err := s.Repo.CountApproved(enrollment.BatchID)
		if err != nil {
			return nil, err
		}
		if !SeatAvailable(batch.SeatLimit, approvedCount) {
			return nil, util.ErrBatchFull
		}
	}

	now := time.Now()
	enrollment.Status = status
	enrollment.DecidedBy = &deciderID
	enrollment.DecidedAt = &now
	if err := s.Repo.Update(enrollment); err != nil {
		return nil, err
	}

	title := "报名已通过: " + batch.Name
	if status == model.EnrollmentRejected {
		title = "报名未通过: " + batch.Name
	}
	_ = s.Notification.NotifyUser(enrollment.StudentID, batch.ID, model.NotifyEnrollment, "", title, "")

	return enrollment, nil
}

func (s *EnrollmentService) ListMine(studentID uint) ([]model.Enrollment, error) {
	return s.Repo.ListByStudent(studentID)
}

func (s *EnrollmentService) ListByBatch(batchID, userID uint, role model.UserRole, status string) ([]repository.EnrollmentWithStudent, error) {
	batch, err := s.BatchRepo.FindByID(batchID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrBatchNotFound
		}
		return nil, err
	}
	if role != model.Admin && batch.TeacherID != userID {
		return nil, util.ErrPermissionDenied
	}
	return s.Repo.ListByBatch(batchID, status)
}

// HasApproved 考试访问门使用的授权谓词
func (s *EnrollmentService) HasApproved(batchID, studentID uint) (bool, error) {
	return s.Repo.HasApproved(batchID, studentID)
}
