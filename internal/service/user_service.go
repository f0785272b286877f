package service

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

type ProfileReq struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req ProfileReq) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(page, limit int, role, keyword string) ([]model.User, int64, error) {
	return s.Repo.List(page, limit, role, keyword)
}

// SetDisabled 管理员启用/停用账号
func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	if _, err := s.GetByID(userID); err != nil {
		return err
	}
	return s.Repo.SetDisabled(userID, disabled)
}
