package service

import "testing"

func TestSeatAvailable(t *testing.T) {
	tests := []struct {
		name          string
		seatLimit     int
		approvedCount int64
		want          bool
	}{
		{name: "zero limit means unlimited", seatLimit: 0, approvedCount: 9999, want: true},
		{name: "negative limit means unlimited", seatLimit: -1, approvedCount: 10, want: true},
		{name: "below limit", seatLimit: 30, approvedCount: 29, want: true},
		{name: "at limit", seatLimit: 30, approvedCount: 30, want: false},
		{name: "above limit", seatLimit: 30, approvedCount: 31, want: false},
		{name: "empty batch", seatLimit: 1, approvedCount: 0, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeatAvailable(tt.seatLimit, tt.approvedCount); got != tt.want {
				t.Errorf("SeatAvailable(%d, %d) = %v, want %v", tt.seatLimit, tt.approvedCount, got, tt.want)
			}
		})
	}
}
