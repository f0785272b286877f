package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	BatchRepo  *repository.BatchRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, batchRepo *repository.BatchRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo, BatchRepo: batchRepo}
}

type CourseReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Level       *string `json:"level"`
	CoverURL    *string `json:"coverUrl"`
}

func (s *CourseService) Create(creatorID uint, req CourseReq) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	course := &model.Course{
		Title:     *req.Title,
		CreatorID: creatorID,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.CoverURL != nil {
		course.CoverURL = *req.CoverURL
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(courseID uint, req CourseReq) (*model.Course, error) {
	course, err := s.Get(courseID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil && *req.Title != "" {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.CoverURL != nil {
		course.CoverURL = *req.CoverURL
	}
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Publish 上架课程，学员端列表仅展示已上架课程
func (s *CourseService) Publish(courseID uint) (*model.Course, error) {
	course, err := s.Get(courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		now := time.Now()
		course.IsPublished = true
		course.PublishedAt = &now
		if err := s.CourseRepo.Update(course); err != nil {
			return nil, err
		}
	}
	return course, nil
}

func (s *CourseService) Unpublish(courseID uint) (*model.Course, error) {
	course, err := s.Get(courseID)
	if err != nil {
		return nil, err
	}
	if course.IsPublished {
		course.IsPublished = false
		if err := s.CourseRepo.Update(course); err != nil {
			return nil, err
		}
	}
	return course, nil
}

func (s *CourseService) Get(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(courseID uint) error {
	if _, err := s.Get(courseID); err != nil {
		return err
	}
	return s.CourseRepo.Delete(courseID)
}

// List 课程列表，非管理端只返回已上架课程
func (s *CourseService) List(page, limit int, publishedOnly bool, category string) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit, publishedOnly, category)
}
