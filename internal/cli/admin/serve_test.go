package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docyard-ai/docyard/internal/config"
)

func TestApplyPortFlag_NotSetKeepsConfig(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.Flags().Parse([]string{}))

	cfg := &config.Config{Port: "9090"}
	applyPortFlag(cfg, cmd)

	assert.Equal(t, "9090", cfg.Port)
}

func TestApplyPortFlag_ExplicitFlagWins(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "7070"}))

	cfg := &config.Config{Port: "9090"}
	applyPortFlag(cfg, cmd)

	assert.Equal(t, "7070", cfg.Port)
}

func TestApplyPortFlag_ExplicitDefaultWins(t *testing.T) {
	cmd := ServeCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"-p", "8080"}))

	cfg := &config.Config{Port: "9090"}
	applyPortFlag(cfg, cmd)

	assert.Equal(t, "8080", cfg.Port)
}
