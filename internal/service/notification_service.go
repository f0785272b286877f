package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/pkg/logger"

	"go.uber.org/zap"
)

// NotificationService 发布类动作的站内通知扇出与学生端已读管理
type NotificationService struct {
	Repo           *repository.NotificationRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewNotificationService(repo *repository.NotificationRepository, enrollmentRepo *repository.EnrollmentRepository) *NotificationService {
	return &NotificationService{Repo: repo, EnrollmentRepo: enrollmentRepo}
}

// FanOutToBatch 向批次内发布时刻审核通过的学生每人写入一条通知
func (s *NotificationService) FanOutToBatch(batchID uint, kind model.NotificationKind, refID, title, body string) error {
	studentIDs, err := s.EnrollmentRepo.ApprovedStudentIDs(batchID)
	if err != nil {
		return err
	}

	notifications := BuildFanOut(studentIDs, batchID, kind, refID, title, body)
	if err := s.Repo.CreateBatch(notifications); err != nil {
		return err
	}

	logger.Log.Info("notification fan-out",
		zap.Uint("batchId", batchID),
		zap.String("kind", string(kind)),
		zap.Int("recipients", len(notifications)))
	return nil
}

// BuildFanOut 构造扇出通知行，接收者为空时返回空切片
func BuildFanOut(studentIDs []uint, batchID uint, kind model.NotificationKind, refID, title, body string) []model.Notification {
	notifications := make([]model.Notification, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		notifications = append(notifications, model.Notification{
			UserID:  studentID,
			BatchID: batchID,
			Kind:    kind,
			RefID:   refID,
			Title:   title,
			Body:    body,
		})
	}
	return notifications
}

// NotifyUser 单人通知（报名审核结果、证书签发等）
func (s *NotificationService) NotifyUser(userID, batchID uint, kind model.NotificationKind, refID, title, body string) error {
	return s.Repo.CreateBatch([]model.Notification{{
		UserID:  userID,
		BatchID: batchID,
		Kind:    kind,
		RefID:   refID,
		Title:   title,
		Body:    body,
	}})
}

func (s *NotificationService) ListForUser(userID uint, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	return s.Repo.ListByUser(userID, unreadOnly, page, limit)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.Repo.MarkRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.Repo.MarkAllRead(userID)
}

func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.Repo.CountUnread(userID)
}
