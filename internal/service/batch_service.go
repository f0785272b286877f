package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type BatchService struct {
	BatchRepo      *repository.BatchRepository
	CourseRepo     *repository.CourseRepository
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewBatchService(
	batchRepo *repository.BatchRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *BatchService {
	return &BatchService{
		BatchRepo:      batchRepo,
		CourseRepo:     courseRepo,
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

type BatchReq struct {
	Name      *string    `json:"name"`
	TeacherID *uint      `json:"teacherId"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	SeatLimit *int       `json:"seatLimit"`
}

func (s *BatchService) Create(courseID uint, req BatchReq) (*model.Batch, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if req.Name == nil || *req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.TeacherID == nil {
		return nil, errors.New("teacherId is required")
	}
	teacher, err := s.UserRepo.FindByID(*req.TeacherID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if teacher.Role != model.Teacher && teacher.Role != model.Admin {
		return nil, errors.New("assigned user is not a teacher")
	}

	batch := &model.Batch{
		CourseID:  courseID,
		TeacherID: *req.TeacherID,
		Name:      *req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if req.SeatLimit != nil {
		if *req.SeatLimit < 0 {
			return nil, errors.New("seatLimit must not be negative")
		}
		batch.SeatLimit = *req.SeatLimit
	}
	if err := s.BatchRepo.Create(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *BatchService) Update(batchID uint, req BatchReq) (*model.Batch, error) {
	batch, err := s.Get(batchID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name != "" {
		batch.Name = *req.Name
	}
	if req.TeacherID != nil {
		teacher, err := s.UserRepo.FindByID(*req.TeacherID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, util.ErrUserNotFound
			}
			return nil, err
		}
		if teacher.Role != model.Teacher && teacher.Role != model.Admin {
			return nil, errors.New("assigned user is not a teacher")
		}
		batch.TeacherID = *req.TeacherID
	}
	if req.StartDate != nil {
		batch.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		batch.EndDate = req.EndDate
	}
	if req.SeatLimit != nil {
		if *req.SeatLimit < 0 {
			return nil, errors.New("seatLimit must not be negative")
		}
		batch.SeatLimit = *req.SeatLimit
	}
	if err := s.BatchRepo.Update(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// Archive 归档批次，归档后不再接受新报名
func (s *BatchService) Archive(batchID uint) (*model.Batch, error) {
	batch, err := s.Get(batchID)
	if err != nil {
		return nil, err
	}
	if !batch.IsArchived {
		batch.IsArchived = true
		if err := s.BatchRepo.Update(batch); err != nil {
			return nil, err
		}
	}
	return batch, nil
}

func (s *BatchService) Get(batchID uint) (*model.Batch, error) {
	batch, err := s.BatchRepo.FindByID(batchID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrBatchNotFound
		}
		return nil, err
	}
	return batch, nil
}

func (s *BatchService) Delete(batchID uint) error {
	if _, err := s.Get(batchID); err != nil {
		return err
	}
	return s.BatchRepo.Delete(batchID)
}

func (s *BatchService) ListByCourse(courseID uint, includeArchived bool) ([]model.Batch, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.BatchRepo.ListByCourse(courseID, includeArchived)
}

func (s *BatchService) ListByTeacher(teacherID uint) ([]model.Batch, error) {
	return s.BatchRepo.ListByTeacher(teacherID)
}

// BatchSeatInfo 批次名额占用情况
type BatchSeatInfo struct {
	SeatLimit     int   `json:"seatLimit"`
	ApprovedCount int64 `json:"approvedCount"`
}

func (s *BatchService) SeatInfo(batchID uint) (*BatchSeatInfo, error) {
	batch, err := s.Get(batchID)
	if err != nil {
		return nil, err
	}
	count, err := s.EnrollmentRepo.CountApproved(batchID)
	if err != nil {
		return nil, err
	}
	return &BatchSeatInfo{SeatLimit: batch.SeatLimit, ApprovedCount: count}, nil
}
