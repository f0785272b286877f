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

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// assertBatchOwner 批次归属教师或管理员才能管理批次内资源
func assertBatchOwner(batchRepo *repository.BatchRepository, batchID uint, userID uint, role model.UserRole) error {
	if role == model.Admin {
		return nil
	}
	batch, err := batchRepo.FindByID(batchID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrBatchNotFound
		}
		return err
	}
	if batch.TeacherID != userID {
		return util.ErrPermissionDenied
	}
	return nil
}

type LessonService struct {
	LessonRepo     *repository.LessonRepository
	BatchRepo      *repository.BatchRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Notification   *NotificationService
	Storage        *StorageService
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	batchRepo *repository.BatchRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	notification *NotificationService,
	storage *StorageService,
) *LessonService {
	return &LessonService{
		LessonRepo:     lessonRepo,
		BatchRepo:      batchRepo,
		EnrollmentRepo: enrollmentRepo,
		Notification:   notification,
		Storage:        storage,
	}
}

type LessonReq struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
	Order   *int    `json:"order"`
}

func (s *LessonService) Create(batchID uint, creatorID uint, role model.UserRole, req LessonReq) (*model.Lesson, error) {
	if err := assertBatchOwner(s.BatchRepo, batchID, creatorID, role); err != nil {
		return nil, err
	}
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}
	lesson := &model.Lesson{
		BatchID:   batchID,
		Title:     *req.Title,
		CreatorID: creatorID,
	}
	if req.Summary != nil {
		lesson.Summary = *req.Summary
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Update(lessonID string, userID uint, role model.UserRole, req LessonReq) (*model.Lesson, error) {
	lesson, err := s.get(lessonID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, lesson.BatchID, userID, role); err != nil {
		return nil, err
	}
	if req.Title != nil && *req.Title != "" {
		lesson.Title = *req.Title
	}
	if req.Summary != nil {
		lesson.Summary = *req.Summary
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Publish 发布课时并通知批次内已通过审核的学生
func (s *LessonService) Publish(lessonID string, userID uint, role model.UserRole) (*model.Lesson, error) {
	lesson, err := s.get(lessonID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, lesson.BatchID, userID, role); err != nil {
		return nil, err
	}
	if lesson.IsPublished {
		return lesson, nil
	}
	lesson.IsPublished = true
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	if err := s.Notification.FanOutToBatch(lesson.BatchID, model.NotifyLesson, lesson.ID,
		"新课时上线", "课时《"+lesson.Title+"》已发布"); err != nil {
		logger.Log.Warn("课时发布通知失败", zap.String("lessonId", lesson.ID), zap.Error(err))
	}
	return lesson, nil
}

func (s *LessonService) Delete(lessonID string, userID uint, role model.UserRole) error {
	lesson, err := s.get(lessonID)
	if err != nil {
		return err
	}
	if err := assertBatchOwner(s.BatchRepo, lesson.BatchID, userID, role); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

// Get 学生只能看到已发布课时
func (s *LessonService) Get(lessonID string, userID uint, role model.UserRole) (*model.Lesson, error) {
	lesson, err := s.get(lessonID)
	if err != nil {
		return nil, err
	}
	if role == model.Student {
		if !lesson.IsPublished {
			return nil, util.ErrLessonNotFound
		}
		approved, err := s.EnrollmentRepo.HasApproved(lesson.BatchID, userID)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, util.ErrNotEnrolled
		}
	}
	return lesson, nil
}

func (s *LessonService) get(lessonID string) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListByBatch(batchID uint, userID uint, role model.UserRole) ([]model.Lesson, error) {
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
	return s.LessonRepo.ListByBatch(batchID, publishedOnly)
}

type MaterialReq struct {
	Kind    string `json:"kind" binding:"required,oneof=text video pdf link"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Order   int    `json:"order"`
}

// AddMaterial 添加 text / link 类型资料，文件类资料走 UploadMaterial
func (s *LessonService) AddMaterial(lessonID string, userID uint, role model.UserRole, req MaterialReq) (*model.Material, error) {
	lesson, err := s.get(lessonID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, lesson.BatchID, userID, role); err != nil {
		return nil, err
	}
	kind := model.MaterialKind(req.Kind)
	if kind != model.MaterialText && kind != model.MaterialLink {
		return nil, errors.New("file materials must be uploaded")
	}
	material := &model.Material{
		LessonID:   lessonID,
		Kind:       kind,
		Title:      req.Title,
		Content:    req.Content,
		URL:        req.URL,
		UploaderID: userID,
		Order:      req.Order,
	}
	if err := s.LessonRepo.CreateMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

// UploadMaterial 上传视频或 PDF 资料，视频会探测时长
func (s *LessonService) UploadMaterial(ctx context.Context, lessonID string, userID uint, role model.UserRole, title string, file *multipart.FileHeader) (*model.Material, error) {
	lesson, err := s.get(lessonID)
	if err != nil {
		return nil, err
	}
	if err := assertBatchOwner(s.BatchRepo, lesson.BatchID, userID, role); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimePDF})
	src.Close()
	if err != nil {
		return nil, err
	}

	var kind model.MaterialKind
	var maxSize int64
	switch {
	case util.IsVideo(mimeType):
		kind = model.MaterialVideo
		maxSize = util.MaxVideoSizeBytes
	case util.IsPDF(mimeType):
		kind = model.MaterialPDF
		maxSize = util.MaxAttachmentSizeBytes
	default:
		return nil, fmt.Errorf("unsupported material type: %s", mimeType)
	}
	if file.Size > maxSize {
		return nil, errors.New("file too large")
	}

	filename := fmt.Sprintf("materials/%s/%s%s", lessonID, uuid.New().String(), filepath.Ext(util.SafeFilename(file.Filename)))
	src, err = file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	material := &model.Material{
		LessonID:   lessonID,
		Kind:       kind,
		Title:      title,
		URL:        url,
		SizeBytes:  file.Size,
		UploaderID: userID,
	}
	if title == "" {
		material.Title = util.SafeFilename(file.Filename)
	}

	// 本地存储的视频可直接探测时长，对象存储场景留给转码流程补齐
	if kind == model.MaterialVideo {
		if local, ok := s.Storage.Provider.(*LocalStorageProvider); ok {
			if info, err := util.GetVideoInfo(filepath.Join(local.Config.LocalPath, filename)); err == nil {
				material.DurationSeconds = int(info.Duration)
			} else {
				logger.Log.Warn("视频信息探测失败", zap.String("file", filename), zap.Error(err))
			}
		}
	}

	if err := s.LessonRepo.CreateMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *LessonService) DeleteMaterial(ctx context.Context, materialID string, userID uint, role model.UserRole) error {
	material, err := s.LessonRepo.FindMaterialByID(materialID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrLessonNotFound
		}
		return err
	}
	lesson, err := s.get(material.LessonID)
	if err != nil {
		return err
	}
	if err := assertBatchOwner(s.BatchRepo, lesson.BatchID, userID, role); err != nil {
		return err
	}
	if err := s.LessonRepo.DeleteMaterial(materialID); err != nil {
		return err
	}
	if material.Kind == model.MaterialVideo || material.Kind == model.MaterialPDF {
		if err := s.Storage.Delete(ctx, trimUploadPrefix(material.URL)); err != nil {
			logger.Log.Warn("资料文件删除失败", zap.String("materialId", materialID), zap.Error(err))
		}
	}
	return nil
}

func (s *LessonService) ListMaterials(lessonID string, userID uint, role model.UserRole) ([]model.Material, error) {
	if _, err := s.Get(lessonID, userID, role); err != nil {
		return nil, err
	}
	return s.LessonRepo.ListMaterials(lessonID)
}

func trimUploadPrefix(url string) string {
	const prefix = "/uploads/"
	if len(url) > len(prefix) && url[:len(prefix)] == prefix {
		return url[len(prefix):]
	}
	return url
}
