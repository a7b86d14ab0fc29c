package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"a.b+tag@sub.domain.org",
		"  padded@example.io  ",
	}
	for _, input := range valid {
		got, err := validateEmail(input)
		require.NoError(t, err, "expected %q to validate", input)
		assert.NotEmpty(t, got)
	}

	invalid := []string{
		"not-an-email",
		"missing@tld",
		"@nodomain.com",
		"spaces in@example.com",
		"two@@example.com",
		"",
	}
	for _, input := range invalid {
		_, err := validateEmail(input)
		assert.Error(t, err, "expected %q to be rejected", input)
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"9876543210", "9876543210", false},
		{"+44 20 7946 0958", "442079460958", false},
		{"(555) 123-4567", "5551234567", false},
		{"123456", "", true},           // too short
		{"1234567890123456", "", true}, // too long
		{"no digits here", "", true},
	}
	for _, tc := range cases {
		got, err := validatePhone(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got)
	}
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2029, 12, 31, 15, 0, 0, 0, time.UTC)

	got, err := validateDate("2030-01-01", now)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01", got)

	// Today is allowed.
	got, err = validateDate("2029-12-31", now)
	require.NoError(t, err)
	assert.Equal(t, "2029-12-31", got)

	_, err = validateDate("2029-12-30", now)
	assert.Error(t, err, "past dates must be rejected")

	_, err = validateDate("31/12/2030", now)
	assert.Error(t, err, "wrong format must be rejected")

	_, err = validateDate("2030-13-40", now)
	assert.Error(t, err, "impossible dates must be rejected")
}

func TestValidateTime(t *testing.T) {
	cases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"14:30", "14:30", false},
		{"09:05", "09:05", false},
		{"2:30PM", "14:30", false},
		{"2:30 pm", "14:30", false},
		{"10:00", "10:00", false},
		{"25:00", "", true},
		{"half past two", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := validateTime(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got)
	}
}

func TestValidateBookingTypeAllowList(t *testing.T) {
	allowed := []string{"consultation", "demo"}

	got, err := validateBookingType("Consultation", allowed)
	require.NoError(t, err)
	assert.Equal(t, "consultation", got)

	_, err = validateBookingType("massage", allowed)
	assert.Error(t, err)

	// Empty allow-list accepts any non-empty value.
	got, err = validateBookingType("anything goes", nil)
	require.NoError(t, err)
	assert.Equal(t, "anything goes", got)

	_, err = validateBookingType("   ", nil)
	assert.Error(t, err)
}
