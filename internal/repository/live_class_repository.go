package repository

import (
	"coachly_backend/internal/model"

	"gorm.io/gorm"
)

type LiveClassRepository struct {
	DB *gorm.DB
}

func NewLiveClassRepository(db *gorm.DB) *LiveClassRepository {
	return &LiveClassRepository{DB: db}
}

func (r *LiveClassRepository) Create(liveClass *model.LiveClass) error {
	return r.DB.Create(liveClass).Error
}

func (r *LiveClassRepository) FindByID(id string) (*model.LiveClass, error) {
	var lc model.LiveClass
	if err := r.DB.First(&lc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lc, nil
}

func (r *LiveClassRepository) Update(liveClass *model.LiveClass) error {
	return r.DB.Save(liveClass).Error
}

func (r *LiveClassRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("live_class_id = ?", id).Delete(&model.Attendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.LiveClass{}, "id = ?", id).Error
	})
}

func (r *LiveClassRepository) ListByBatch(batchID uint) ([]model.LiveClass, error) {
	var classes []model.LiveClass
	err := r.DB.Where("batch_id = ?", batchID).Order("scheduled_at asc").Find(&classes).Error
	return classes, err
}

func (r *LiveClassRepository) FindAttendance(liveClassID string, studentID uint) (*model.Attendance, error) {
	var a model.Attendance
	err := r.DB.Where("live_class_id = ? AND student_id = ?", liveClassID, studentID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *LiveClassRepository) SaveAttendance(attendance *model.Attendance) error {
	return r.DB.Save(attendance).Error
}

// AttendanceWithStudent 考勤记录及学生姓名
type AttendanceWithStudent struct {
	model.Attendance
	StudentName string `json:"studentName"`
}

func (r *LiveClassRepository) ListAttendance(liveClassID string) ([]AttendanceWithStudent, error) {
	var rows []AttendanceWithStudent
	err := r.DB.Table("attendances a").
		Select("a.*, u.name as student_name").
		Joins("JOIN users u ON u.id = a.student_id").
		Where("a.live_class_id = ? AND a.deleted_at IS NULL", liveClassID).
		Order("u.name asc").
		Scan(&rows).Error
	return rows, err
}

func (r *LiveClassRepository) ListStudentAttendance(batchID, studentID uint) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.DB.Table("attendances a").
		Joins("JOIN live_classes lc ON lc.id = a.live_class_id").
		Where("lc.batch_id = ? AND a.student_id = ? AND a.deleted_at IS NULL", batchID, studentID).
		Select("a.*").
		Scan(&rows).Error
	return rows, err
}
