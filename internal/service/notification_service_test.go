package service

import (
	"coachly_backend/internal/model"
	"testing"
)

func TestBuildFanOut(t *testing.T) {
	got := BuildFanOut([]uint{7, 8, 9}, 3, model.NotifyLesson, "lesson-1", "新课时发布", "第一章已发布")

	if len(got) != 3 {
		t.Fatalf("got %d notifications, want 3", len(got))
	}
	for i, userID := range []uint{7, 8, 9} {
		n := got[i]
		if n.UserID != userID {
			t.Errorf("notification[%d].UserID = %d, want %d", i, n.UserID, userID)
		}
		if n.BatchID != 3 || n.Kind != model.NotifyLesson || n.RefID != "lesson-1" {
			t.Errorf("notification[%d] = %+v", i, n)
		}
		if n.Title != "新课时发布" || n.Body != "第一章已发布" {
			t.Errorf("notification[%d] title/body = %q/%q", i, n.Title, n.Body)
		}
	}
}

func TestBuildFanOutNoRecipients(t *testing.T) {
	got := BuildFanOut(nil, 3, model.NotifyExam, "exam-1", "t", "b")
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("got %d notifications, want 0", len(got))
	}
}
