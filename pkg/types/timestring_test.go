package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning time", input: "09:30", want: "09:30"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "23:59", want: "23:59"},
		{name: "missing leading zero", input: "9:30", wantErr: true},
		{name: "out of range hours", input: "24:00", wantErr: true},
		{name: "out of range minutes", input: "10:60", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		base    TimeString
		minutes int
		want    TimeString
		wantErr bool
	}{
		{name: "add within hour", base: "09:00", minutes: 30, want: "09:30"},
		{name: "add across hour", base: "09:45", minutes: 30, want: "10:15"},
		{name: "subtract", base: "10:15", minutes: -75, want: "09:00"},
		{name: "overflow past midnight", base: "23:30", minutes: 60, wantErr: true},
		{name: "underflow before midnight", base: "00:10", minutes: -20, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.base.AddMinutes(tt.minutes)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_MinutesBetween(t *testing.T) {
	from := TimeString("09:00")
	to := TimeString("10:30")

	minutes, err := from.MinutesBetween(to)
	require.NoError(t, err)
	assert.Equal(t, 90, minutes)

	minutes, err = to.MinutesBetween(from)
	require.NoError(t, err)
	assert.Equal(t, -90, minutes)
}

func TestTimeString_Comparison(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("09:00"))
	assert.True(t, TimeString("18:00").IsAfter("12:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestNewTimeString(t *testing.T) {
	moment := time.Date(2025, 6, 1, 14, 5, 59, 0, time.UTC)
	assert.Equal(t, TimeString("14:05"), NewTimeString(moment))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("12:30"))
	assert.Equal(t, TimeString("12:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	assert.Error(t, ts.Scan(42))
}
