package notifier_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults disable external channels", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "notifier", cfg.Consumer.GroupID)
		assert.Equal(t, 5, cfg.Consumer.HandlerAttempts)
		assert.False(t, cfg.SMTP.Enable)
		assert.Empty(t, cfg.SharePoint.Endpoint)
		assert.Equal(t, 5*time.Second, cfg.SharePoint.Timeout)
		assert.Equal(t, "[Upkeep]", cfg.SMTP.SubjPrefix)
	})

	t.Run("sharepoint endpoint needs a token", func(t *testing.T) {
		t.Setenv("SHAREPOINT_ENDPOINT", "https://example.sharepoint.test/notify")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sharepoint.token")

		t.Setenv("SHAREPOINT_TOKEN", "secret")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "secret", cfg.SharePoint.Token)
	})
}
