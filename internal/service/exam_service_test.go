package service

import "testing"

func intPtr(v int) *int { return &v }

func TestValidateQuestionReq(t *testing.T) {
	base := QuestionReq{
		Text:         "2+2=?",
		Options:      []string{"3", "4", "5", "6"},
		CorrectIndex: 1,
	}

	tests := []struct {
		name         string
		mutate       func(*QuestionReq)
		wantMarks    int
		wantNegative int
		wantErr      bool
	}{
		{
			name:      "defaults applied",
			mutate:    func(r *QuestionReq) {},
			wantMarks: 1,
		},
		{
			name: "explicit marks and negativeMarks",
			mutate: func(r *QuestionReq) {
				r.Marks = intPtr(4)
				r.NegativeMarks = intPtr(1)
			},
			wantMarks:    4,
			wantNegative: 1,
		},
		{
			name:    "too few options",
			mutate:  func(r *QuestionReq) { r.Options = []string{"only"} },
			wantErr: true,
		},
		{
			name: "too many options",
			mutate: func(r *QuestionReq) {
				r.Options = []string{"a", "b", "c", "d", "e", "f", "g"}
			},
			wantErr: true,
		},
		{
			name:    "correctIndex out of range",
			mutate:  func(r *QuestionReq) { r.CorrectIndex = 4 },
			wantErr: true,
		},
		{
			name:    "negative correctIndex",
			mutate:  func(r *QuestionReq) { r.CorrectIndex = -1 },
			wantErr: true,
		},
		{
			name:    "zero marks rejected",
			mutate:  func(r *QuestionReq) { r.Marks = intPtr(0) },
			wantErr: true,
		},
		{
			name:    "negative marks rejected",
			mutate:  func(r *QuestionReq) { r.Marks = intPtr(-3) },
			wantErr: true,
		},
		{
			name:    "negative negativeMarks rejected",
			mutate:  func(r *QuestionReq) { r.NegativeMarks = intPtr(-1) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)

			marks, negative, err := validateQuestionReq(req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if marks != tt.wantMarks || negative != tt.wantNegative {
				t.Errorf("got marks=%d negative=%d, want %d/%d", marks, negative, tt.wantMarks, tt.wantNegative)
			}
		})
	}
}

func TestValidateGradeMarks(t *testing.T) {
	tests := []struct {
		name       string
		marks      int
		totalMarks int
		wantErr    bool
	}{
		{name: "zero marks allowed", marks: 0, totalMarks: 100},
		{name: "full marks", marks: 100, totalMarks: 100},
		{name: "negative rejected", marks: -1, totalMarks: 100, wantErr: true},
		{name: "over maximum rejected", marks: 101, totalMarks: 100, wantErr: true},
		{name: "no total means only non-negative", marks: 500, totalMarks: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateGradeMarks(tt.marks, tt.totalMarks)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateGradeMarks(%d, %d) error = %v, wantErr %v", tt.marks, tt.totalMarks, err, tt.wantErr)
			}
		})
	}
}
