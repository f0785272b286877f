package controller

import (
	"coachly_backend/internal/model"
	"coachly_backend/internal/repository"
	"coachly_backend/internal/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubEnrollmentManager struct {
	enrollment *model.Enrollment
	err        error
}

func (s *stubEnrollmentManager) Enroll(batchID, studentID uint, message string) (*model.Enrollment, error) {
	return s.enrollment, s.err
}

func (s *stubEnrollmentManager) Approve(enrollmentID, deciderID uint, role model.UserRole) (*model.Enrollment, error) {
	return s.enrollment, s.err
}

func (s *stubEnrollmentManager) Reject(enrollmentID, deciderID uint, role model.UserRole) (*model.Enrollment, error) {
	return s.enrollment, s.err
}

func (s *stubEnrollmentManager) ListMine(studentID uint) ([]model.Enrollment, error) {
	return nil, s.err
}

func (s *stubEnrollmentManager) ListByBatch(batchID, userID uint, role model.UserRole, status string) ([]repository.EnrollmentWithStudent, error) {
	return nil, s.err
}

func newEnrollContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/batches/10/enroll", nil)
	ctx.Params = gin.Params{{Key: "batchId", Value: "10"}}
	ctx.Set("user", &util.Claims{UserID: 101, Role: model.Student})
	return ctx, w
}

func TestEnrollDuplicateCarriesExistingRecord(t *testing.T) {
	existing := &model.Enrollment{
		BaseModel: model.BaseModel{ID: 7},
		BatchID:   10,
		StudentID: 101,
		Status:    model.EnrollmentPending,
	}
	c := &EnrollmentController{
		EnrollmentService: &stubEnrollmentManager{enrollment: existing, err: util.ErrAlreadyEnrolled},
	}

	ctx, w := newEnrollContext(t)
	c.Enroll(ctx)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	var resp struct {
		Data model.Enrollment `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.ID != existing.ID {
		t.Errorf("response enrollment id = %d, want %d", resp.Data.ID, existing.ID)
	}
	if resp.Data.Status != model.EnrollmentPending {
		t.Errorf("response status = %v, want pending", resp.Data.Status)
	}
}

func TestEnrollCreated(t *testing.T) {
	created := &model.Enrollment{
		BaseModel: model.BaseModel{ID: 8},
		BatchID:   10,
		StudentID: 101,
		Status:    model.EnrollmentPending,
	}
	c := &EnrollmentController{
		EnrollmentService: &stubEnrollmentManager{enrollment: created},
	}

	ctx, w := newEnrollContext(t)
	c.Enroll(ctx)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
}
