package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframeToDateRange(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.Local)

	type testCase struct {
		name      string
		tf        Timeframe
		wantStart string
		wantEnd   string
	}

	tests := []testCase{
		{name: "Today", tf: TimeframeToday, wantStart: "2026-03-04", wantEnd: "2026-03-04"},
		{name: "Yesterday", tf: TimeframeYesterday, wantStart: "2026-03-03", wantEnd: "2026-03-03"},
		{name: "ThisWeek", tf: TimeframeThisWeek, wantStart: "2026-03-02", wantEnd: "2026-03-04"},
		{name: "LastWeek", tf: TimeframeLastWeek, wantStart: "2026-02-23", wantEnd: "2026-03-01"},
		{name: "ThisMonth", tf: TimeframeThisMonth, wantStart: "2026-03-01", wantEnd: "2026-03-04"},
		{name: "LastMonth", tf: TimeframeLastMonth, wantStart: "2026-02-01", wantEnd: "2026-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := timeframeToDateRange(tt.tf, now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTimeframeToDateRange_SundayClosesWeek(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 9, 0, 0, 0, time.Local)

	start, end := timeframeToDateRange(TimeframeThisWeek, sunday)
	assert.Equal(t, "2026-03-02", start)
	assert.Equal(t, "2026-03-08", end)
}

func TestParseCustomRange(t *testing.T) {
	type testCase struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
		wantErr   bool
	}

	tests := []testCase{
		{name: "Range", start: "2026-01-05", end: "2026-01-10", wantStart: "2026-01-05", wantEnd: "2026-01-10"},
		{name: "FrenchDates", start: "05/01/2026", end: "10/01/2026", wantStart: "2026-01-05", wantEnd: "2026-01-10"},
		{name: "SingleDay", start: "2026-01-05", wantStart: "2026-01-05", wantEnd: "2026-01-05"},
		{name: "WholeMonth", start: "2024-02", wantStart: "2024-02-01", wantEnd: "2024-02-29"},
		{name: "Reversed", start: "2026-01-10", end: "2026-01-05", wantErr: true},
		{name: "BadStart", start: "demain", end: "2026-01-05", wantErr: true},
		{name: "BadEnd", start: "2026-01-05", end: "2026-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseCustomRange(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
