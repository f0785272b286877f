package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ExamSubmissionService pdf 类型考试的文件提交与人工评分，
// 无计分逻辑，一人一份，重复提交覆盖文件与时间。
type ExamSubmissionService struct {
	SubmissionRepo *repository.ExamSubmissionRepository
	ExamRepo       *repository.ExamRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ExamSvc        *ExamService
}

func NewExamSubmissionService(
	submissionRepo *repository.ExamSubmissionRepository,
	examRepo *repository.ExamRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	examSvc *ExamService,
) *ExamSubmissionService {
	return &ExamSubmissionService{
		SubmissionRepo: submissionRepo,
		ExamRepo:       examRepo,
		EnrollmentRepo: enrollmentRepo,
		ExamSvc:        examSvc,
	}
}

// Submit 上传或覆盖 pdf 答卷
func (s *ExamSubmissionService) Submit(examID string, studentID uint, fileURL string) (*model.ExamSubmission, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	if exam.ExamType != model.ExamPDF {
		return nil, util.ErrExamNotPDF
	}
	if !exam.IsPublished {
		return nil, util.ErrExamNotPublished
	}
	enrolled, err := s.EnrollmentRepo.HasApproved(exam.BatchID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}
	now := time.Now()
	if err := CheckStartWindow(exam, now); err != nil {
		return nil, err
	}

	submission, err := s.SubmissionRepo.FindByExamAndStudent(examID, studentID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if submission == nil {
		submission = &model.ExamSubmission{
			ExamID:    examID,
			StudentID: studentID,
		}
	}
	// 覆盖文件与提交时间，已有评分保留
	submission.FileURL = fileURL
	submission.SubmittedAt = now

	if err := s.SubmissionRepo.Save(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *ExamSubmissionService) GetMine(examID string, studentID uint) (*model.ExamSubmission, error) {
	submission, err := s.SubmissionRepo.FindByExamAndStudent(examID, studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

func (s *ExamSubmissionService) ListByExam(examID string, userID uint, role model.UserRole) ([]repository.PDFSubmissionRow, error) {
	exam, err := s.ExamRepo.FindByID(examID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrExamNotFound
		}
		return nil, err
	}
	if err := s.ExamSvc.AssertBatchOwner(exam.BatchID, userID, role); err != nil {
		return nil, err
	}
	return s.SubmissionRepo.ListByExam(examID)
}

// GradeReq 指针承载 marks，0 分是合法评分
type GradeReq struct {
	Marks    *int   `json:"marks" binding:"required"`
	Feedback string `json:"feedback"`
}

// validateGradeMarks 0 到卷面总分（总分未设置时只要求非负）
func validateGradeMarks(marks, totalMarks int) error {
	if marks < 0 {
		return fmt.Errorf("marks must be non-negative")
	}
	if totalMarks > 0 && marks > totalMarks {
		return fmt.Errorf("marks exceed maximum of %d", totalMarks)
	}
	return nil
}

// Grade 人工评分，记录评分人与时间
func (s *ExamSubmissionService) Grade(submissionID string, graderID uint, role model.UserRole, req GradeReq) (*model.ExamSubmission, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	exam, err := s.ExamRepo.FindByID(submission.ExamID)
	if err != nil {
		return nil, err
	}
	if err := s.ExamSvc.AssertBatchOwner(exam.BatchID, graderID, role); err != nil {
		return nil, err
	}

	if err := validateGradeMarks(*req.Marks, exam.TotalMarks); err != nil {
		return nil, err
	}

	now := time.Now()
	marks := *req.Marks
	submission.Marks = &marks
	submission.Feedback = req.Feedback
	submission.GraderID = &graderID
	submission.GradedAt = &now

	if err := s.SubmissionRepo.Save(submission); err != nil {
		return nil, err
	}
	return submission, nil
}
