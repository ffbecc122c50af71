package notifier

import (
	"strings"
	"testing"

	config "github.com/NordCoder/Upkeep/internal/config/notifier"
	"github.com/stretchr/testify/assert"
)

func TestMailer_Compose(t *testing.T) {
	m := NewMailer(config.SMTP{Addr: "smtp.plant.test:587", From: "noreply@plant.test", SubjPrefix: "[Upkeep]"})

	subj, msg := m.compose("ana@plant.test", "Maintenance due: Press", "line one\nline two")

	assert.Equal(t, "[Upkeep] Maintenance due: Press", subj)
	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "From: noreply@plant.test\r\nTo: ana@plant.test\r\n"))
	assert.Contains(t, s, "Subject: [Upkeep] Maintenance due: Press\r\n")
	assert.Contains(t, s, "\r\n\r\nline one\r\nline two\r\n")
}

func TestHost(t *testing.T) {
	assert.Equal(t, "smtp.plant.test", host("smtp.plant.test:587"))
	assert.Equal(t, "smtp.plant.test", host("smtp.plant.test"))
	assert.Equal(t, "::1", host("[::1]:25"))
}
