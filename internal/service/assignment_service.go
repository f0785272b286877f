package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"coachly_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	BatchRepo      *repository.BatchRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Notification   *NotificationService
	Storage        *StorageService
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	batchRepo *repository.BatchRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	notification *NotificationService,
	storage *StorageService,
) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		BatchRepo:      batchRepo,
		EnrollmentRepo: enrollmentRepo,
		Notification:   notification,
		Storage:        storage,
	}
}

type AssignmentReq struct {
	Title        *string    `json:"title"`
	Instructions *string    `json:"instructions"`
	DueAt        *time.Time `json:"dueAt"`
	MaxMarks     *int       `json:"maxMarks"`
}

func (s *AssignmentService) Create(batchID uint, creatorID uint, role model.UserRole, req AssignmentReq) (*model.Assignment, error) {
	if err := assertBatchOwner(s.BatchRepo, batchID, creatorID, role); err != nil {
		return nil, err
	}
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	assignment := &model.Assignment{
		BatchID:   batchID,
		Title:     *req.Title,
		DueAt:     req.DueAt,
		CreatorID: creatorID,
	}
	if req.Instructions != nil {
		assignment.Instructions = *req.Instructions
	}
	if req.MaxMarks != nil {
		if *req.MaxMarks <= 0 {
			return nil, errors.New("maxMarks must be positive")
		}
		assignment.MaxMarks = *req.MaxMarks
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Update(assignmentID string, userID uint, role model.UserRole, req AssignmentReq) (*model.Assignment, error) {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, assignment.BatchID, userID, role); err != nil {
		return nil, err
	}
	if req.Title != nil && *req.Title != "" {
		assignment.Title = *req.Title
	}
	if req.Instructions != nil {
		assignment.Instructions = *req.Instructions
	}
	if req.DueAt != nil {
		assignment.DueAt = req.DueAt
	}
	if req.MaxMarks != nil {
		if *req.MaxMarks <= 0 {
			return nil, errors.New("maxMarks must be positive")
		}
		assignment.MaxMarks = *req.MaxMarks
	}
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// AttachFile 上传作业附件（题目说明、模板等）
func (s *AssignmentService) AttachFile(ctx context.Context, assignmentID string, userID uint, role model.UserRole, file *multipart.FileHeader) (*model.Assignment, error) {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, assignment.BatchID, userID, role); err != nil {
		return nil, err
	}
	if file.Size > util.MaxAttachmentSizeBytes {
		return nil, errors.New("file too large")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	filename := fmt.Sprintf("assignments/%s/%s%s", assignmentID, uuid.New().String(), filepath.Ext(util.SafeFilename(file.Filename)))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, util.MimeOctetStream)
	if err != nil {
		return nil, err
	}

	assignment.AttachmentURL = url
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Publish 发布作业并通知批次内已通过审核的学生
func (s *AssignmentService) Publish(assignmentID string, userID uint, role model.UserRole) (*model.Assignment, error) {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, assignment.BatchID, userID, role); err != nil {
		return nil, err
	}
	if assignment.IsPublished {
		return assignment, nil
	}
	assignment.IsPublished = true
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	if err := s.Notification.FanOutToBatch(assignment.BatchID, model.NotifyAssignment, assignment.ID,
		"新作业发布", "作业《"+assignment.Title+"》已发布"); err != nil {
		logger.Log.Warn("作业发布通知失败", zap.String("assignmentId", assignment.ID), zap.Error(err))
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(assignmentID string, userID uint, role model.UserRole) error {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return err
	}
	if err := assertBatchOwner(s.BatchRepo, assignment.BatchID, userID, role); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(assignmentID)
}

func (s *AssignmentService) Get(assignmentID string, userID uint, role model.UserRole) (*model.Assignment, error) {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return nil, err
	}
	if role == model.Student {
		if !assignment.IsPublished {
			return nil, util.ErrAssignmentNotFound
		}
		approved, err := s.EnrollmentRepo.HasApproved(assignment.BatchID, userID)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, util.ErrNotEnrolled
		}
	}
	return assignment, nil
}

func (s *AssignmentService) get(assignmentID string) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) ListByBatch(batchID uint, userID uint, role model.UserRole) ([]model.Assignment, error) {
	publishedOnly := role == model.Student
	if publishedOnly {
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
	return s.AssignmentRepo.ListByBatch(batchID, publishedOnly)
}

// SubmitFile 学生提交作业文件，重复提交覆盖文件并清空此前的评分
func (s *AssignmentService) SubmitFile(ctx context.Context, assignmentID string, studentID uint, note string, file *multipart.FileHeader) (*model.AssignmentSubmission, error) {
	assignment, err := s.Get(assignmentID, studentID, model.Student)
	if err != nil {
		return nil, err
	}
	if assignment.DueAt != nil && time.Now().After(*assignment.DueAt) {
		return nil, errors.New("assignment due date has passed")
	}
	if file.Size > util.MaxAttachmentSizeBytes {
		return nil, errors.New("file too large")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	filename := fmt.Sprintf("submissions/%s/%d_%s%s", assignmentID, studentID, uuid.New().String(), filepath.Ext(util.SafeFilename(file.Filename)))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, util.MimeOctetStream)
	if err != nil {
		return nil, err
	}

	submission, err := s.AssignmentRepo.FindSubmission(assignmentID, studentID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	now := time.Now()
	if submission == nil {
		submission = &model.AssignmentSubmission{
			AssignmentID: assignmentID,
			StudentID:    studentID,
		}
	}
	submission.FileURL = url
	submission.Note = note
	submission.SubmittedAt = now
	submission.Marks = nil
	submission.Feedback = ""
	submission.GraderID = nil
	submission.GradedAt = nil

	if err := s.AssignmentRepo.SaveSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *AssignmentService) GetMySubmission(assignmentID string, studentID uint) (*model.AssignmentSubmission, error) {
	if _, err := s.Get(assignmentID, studentID, model.Student); err != nil {
		return nil, err
	}
	submission, err := s.AssignmentRepo.FindSubmission(assignmentID, studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

func (s *AssignmentService) ListSubmissions(assignmentID string, userID uint, role model.UserRole) ([]repository.SubmissionWithStudent, error) {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, assignment.BatchID, userID, role); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.ListSubmissions(assignmentID)
}

type AssignmentGradeReq struct {
	Marks    int    `json:"marks" binding:"min=0"`
	Feedback string `json:"feedback"`
}

func (s *AssignmentService) GradeSubmission(submissionID string, graderID uint, role model.UserRole, req AssignmentGradeReq) (*model.AssignmentSubmission, error) {
	submission, err := s.AssignmentRepo.FindSubmissionByID(submissionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	assignment, err := s.get(submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, assignment.BatchID, graderID, role); err != nil {
		return nil, err
	}
	if req.Marks > assignment.MaxMarks {
		return nil, fmt.Errorf("marks exceed maximum of %d", assignment.MaxMarks)
	}

	now := time.Now()
	submission.Marks = &req.Marks
	submission.Feedback = req.Feedback
	submission.GraderID = &graderID
	submission.GradedAt = &now
	if err := s.AssignmentRepo.SaveSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}
