package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"coachly_backend/pkg/logger"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LiveClassService struct {
	LiveClassRepo  *repository.LiveClassRepository
	BatchRepo      *repository.BatchRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Notification   *NotificationService
}

func NewLiveClassService(
	liveClassRepo *repository.LiveClassRepository,
	batchRepo *repository.BatchRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	notification *NotificationService,
) *LiveClassService {
	return &LiveClassService{
		LiveClassRepo:  liveClassRepo,
		BatchRepo:      batchRepo,
		EnrollmentRepo: enrollmentRepo,
		Notification:   notification,
	}
}

type LiveClassReq struct {
	Topic           *string    `json:"topic"`
	Description     *string    `json:"description"`
	MeetingURL      *string    `json:"meetingUrl"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	DurationMinutes *int       `json:"durationMinutes"`
}

// Create 排课并立即通知批次内学生
func (s *LiveClassService) Create(batchID uint, creatorID uint, role model.UserRole, req LiveClassReq) (*model.LiveClass, error) {
	if err := assertBatchOwner(s.BatchRepo, batchID, creatorID, role); err != nil {
		return nil, err
	}
	if req.Topic == nil || *req.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if req.ScheduledAt == nil {
		return nil, errors.New("scheduledAt is required")
	}

	liveClass := &model.LiveClass{
		BatchID:     batchID,
		Topic:       *req.Topic,
		ScheduledAt: *req.ScheduledAt,
		CreatorID:   creatorID,
	}
	if req.Description != nil {
		liveClass.Description = *req.Description
	}
	if req.MeetingURL != nil {
		liveClass.MeetingURL = *req.MeetingURL
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, errors.New("durationMinutes must be positive")
		}
		liveClass.DurationMinutes = *req.DurationMinutes
	}
	if err := s.LiveClassRepo.Create(liveClass); err != nil {
		return nil, err
	}

	if err := s.Notification.FanOutToBatch(batchID, model.NotifyLiveClass, liveClass.ID,
		"直播课排期", "直播课《"+liveClass.Topic+"》已排期："+liveClass.ScheduledAt.Format(util.TimeFormat)); err != nil {
		logger.Log.Warn("直播课通知失败", zap.String("liveClassId", liveClass.ID), zap.Error(err))
	}
	return liveClass, nil
}

func (s *LiveClassService) Update(liveClassID string, userID uint, role model.UserRole, req LiveClassReq) (*model.LiveClass, error) {
	liveClass, err := s.get(liveClassID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, liveClass.BatchID, userID, role); err != nil {
		return nil, err
	}

	rescheduled := false
	if req.Topic != nil && *req.Topic != "" {
		liveClass.Topic = *req.Topic
	}
	if req.Description != nil {
		liveClass.Description = *req.Description
	}
	if req.MeetingURL != nil {
		liveClass.MeetingURL = *req.MeetingURL
	}
	if req.ScheduledAt != nil && !req.ScheduledAt.Equal(liveClass.ScheduledAt) {
		liveClass.ScheduledAt = *req.ScheduledAt
		rescheduled = true
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, errors.New("durationMinutes must be positive")
		}
		liveClass.DurationMinutes = *req.DurationMinutes
	}
	if err := s.LiveClassRepo.Update(liveClass); err != nil {
		return nil, err
	}

	if rescheduled {
		if err := s.Notification.FanOutToBatch(liveClass.BatchID, model.NotifyLiveClass, liveClass.ID,
			"直播课改期", "直播课《"+liveClass.Topic+"》改期至："+liveClass.ScheduledAt.Format(util.TimeFormat)); err != nil {
			logger.Log.Warn("直播课改期通知失败", zap.String("liveClassId", liveClass.ID), zap.Error(err))
		}
	}
	return liveClass, nil
}

func (s *LiveClassService) Delete(liveClassID string, userID uint, role model.UserRole) error {
	liveClass, err := s.get(liveClassID)
	if err != nil {
		return err
	}
	if err := assertBatchOwner(s.BatchRepo, liveClass.BatchID, userID, role); err != nil {
		return err
	}
	return s.LiveClassRepo.Delete(liveClassID)
}

func (s *LiveClassService) Get(liveClassID string, userID uint, role model.UserRole) (*model.LiveClass, error) {
	liveClass, err := s.get(liveClassID)
	if err != nil {
		return nil, err
	}
	if role == model.Student {
		approved, err := s.EnrollmentRepo.HasApproved(liveClass.BatchID, userID)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, util.ErrNotEnrolled
		}
	}
	return liveClass, nil
}

func (s *LiveClassService) get(liveClassID string) (*model.LiveClass, error) {
	liveClass, err := s.LiveClassRepo.FindByID(liveClassID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLiveClassNotFound
		}
		return nil, err
	}
	return liveClass, nil
}

func (s *LiveClassService) ListByBatch(batchID uint, userID uint, role model.UserRole) ([]model.LiveClass, error) {
	if role == model.Student {
		approved, err := s.EnrollmentRepo.HasApproved(batchID, userID)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, util.ErrNotEnrolled
		}
	} else if err := assertBatchOwner(s.BatchRepo, batchID, userID, role); err != nil {
		return nil, err
	}
	return s.LiveClassRepo.ListByBatch(batchID)
}

type AttendanceReq struct {
	StudentID uint   `json:"studentId" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present absent late"`
}

// MarkAttendance 教师点名，同一学生重复标记以最后一次为准
func (s *LiveClassService) MarkAttendance(liveClassID string, markerID uint, role model.UserRole, req AttendanceReq) (*model.Attendance, error) {
	liveClass, err := s.get(liveClassID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, liveClass.BatchID, markerID, role); err != nil {
		return nil, err
	}
	approved, err := s.EnrollmentRepo.HasApproved(liveClass.BatchID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, util.ErrNotEnrolled
	}

	attendance, err := s.LiveClassRepo.FindAttendance(liveClassID, req.StudentID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if attendance == nil {
		attendance = &model.Attendance{
			LiveClassID: liveClassID,
			StudentID:   req.StudentID,
		}
	}
	attendance.Status = model.AttendanceStatus(req.Status)
	attendance.MarkedBy = markerID
	attendance.MarkedAt = time.Now()

	if err := s.LiveClassRepo.SaveAttendance(attendance); err != nil {
		return nil, err
	}
	return attendance, nil
}

func (s *LiveClassService) ListAttendance(liveClassID string, userID uint, role model.UserRole) ([]repository.AttendanceWithStudent, error) {
	liveClass, err := s.get(liveClassID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, liveClass.BatchID, userID, role); err != nil {
		return nil, err
	}
	return s.LiveClassRepo.ListAttendance(liveClassID)
}

// MyAttendance 学生查看自己在批次内的出勤记录
func (s *LiveClassService) MyAttendance(batchID uint, studentID uint) ([]model.Attendance, error) {
	approved, err := s.EnrollmentRepo.HasApproved(batchID, studentID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, util.ErrNotEnrolled
	}
	return s.LiveClassRepo.ListStudentAttendance(batchID, studentID)
}
