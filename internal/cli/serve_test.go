package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindstash-io/mindstash/internal/config"
)

func TestApplyPortFlag(t *testing.T) {
	t.Run("unset flag keeps configured port", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.Flags().Parse(nil))

		cfg := &config.Config{Port: "9090"}
		applyPortFlag(cmd.Flags(), cfg)

		assert.Equal(t, "9090", cfg.Port)
	})

	t.Run("explicit flag overrides configured port", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.Flags().Parse([]string{"--port", "3000"}))

		cfg := &config.Config{Port: "9090"}
		applyPortFlag(cmd.Flags(), cfg)

		assert.Equal(t, "3000", cfg.Port)
	})

	t.Run("explicit flag equal to the default still overrides", func(t *testing.T) {
		cmd := ServeCmd()
		require.NoError(t, cmd.Flags().Parse([]string{"-p", "8080"}))

		cfg := &config.Config{Port: "9090"}
		applyPortFlag(cmd.Flags(), cfg)

		assert.Equal(t, "8080", cfg.Port)
	})
}
