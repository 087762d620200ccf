package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIPChangeAlertJobFirstLogin(t *testing.T) {
	job := NewIPChangeAlertJob("user@example.com", nil, "1.2.3.4")

	assert.Equal(t, "user@example.com", job.To)
	assert.Equal(t, "Security Alert: New Login Location Detected", job.Subject)
	assert.Contains(t, job.Text, "first login")
	assert.Contains(t, job.Text, "IP Address: 1.2.3.4")
	assert.NotContains(t, job.Text, "Previous IP Address")
}

func TestNewIPChangeAlertJobChangedAddress(t *testing.T) {
	old := "1.1.1.1"
	job := NewIPChangeAlertJob("user@example.com", &old, "2.2.2.2")

	assert.Contains(t, job.Text, "Previous IP Address: 1.1.1.1")
	assert.Contains(t, job.Text, "New IP Address: 2.2.2.2")
}
