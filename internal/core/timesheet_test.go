package core_test

import (
	"context"
	"errors"
	"testing"

	"lumix-backoffice/internal/core"
)

func TestRoundToFiveMinutes(t *testing.T) {
	tests := []struct {
		raw  float64
		want int
	}{
		{0, 0},
		{2.4, 0},
		{2.5, 5},
		{7.49, 5},
		{7.5, 10},
		{62, 60},
		{63, 65},
		{480, 480},
	}
	for _, tt := range tests {
		if got := core.RoundToFiveMinutes(tt.raw); got != tt.want {
			t.Errorf("RoundToFiveMinutes(%v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestSummary_RejectsMalformedBounds(t *testing.T) {
	// Bounds are validated before any query runs, so no database is
	// needed to exercise the rejection.
	svc := core.NewTimesheetService(nil)

	tests := []struct {
		name       string
		start, end string
	}{
		{"garbage start", "not-a-date", ""},
		{"garbage end", "", "soon"},
		{"wrong date order", "01-02-2026", ""},
		{"sql in bound", "", "2026-01-01'; DROP TABLE time_entries;--"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Summary(context.Background(), 1, 1, core.RoleAdmin, tt.start, tt.end)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestNetWorkedMinutes_FlooredAtZero(t *testing.T) {
	if got := core.NetWorkedMinutes(60, 15); got != 45 {
		t.Errorf("net = %d, want 45", got)
	}
	// A long break on a short shift nets to zero, never negative.
	if got := core.NetWorkedMinutes(5, 30); got != 0 {
		t.Errorf("net = %d, want 0", got)
	}
}
