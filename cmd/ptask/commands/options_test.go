package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/ptask/internal/config"
	"github.com/thoreinstein/ptask/internal/errors"
)

func newOptionCommand(t *testing.T, options ...option) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "demo"}
	for _, o := range options {
		addOption(c.Flags(), o)
	}
	return c
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "debug-pytask", flagName("debug_pytask"))
	assert.Equal(t, "json", flagName("json"))
}

func TestAddOption_BindsTarget(t *testing.T) {
	var target string
	c := newOptionCommand(t, option{name: "format", value: "yaml", target: &target})

	assert.Equal(t, "yaml", target)
	require.NoError(t, c.Flags().Set("format", "json"))
	assert.Equal(t, "json", target)
}

func TestAddOption_MismatchedTargetPanics(t *testing.T) {
	var target int
	assert.Panics(t, func() {
		newOptionCommand(t, option{name: "format", value: "yaml", target: &target})
	})
}

func TestExplicitOptions(t *testing.T) {
	options := []option{
		{name: "json", value: false},
		{name: "max_failures", value: 0},
		{name: "ignore", value: []string{}},
		{name: "format", value: "yaml"},
	}
	c := newOptionCommand(t, options...)
	require.NoError(t, c.ParseFlags([]string{"--json", "--ignore", "a/*,b/*", "--max-failures", "3"}))

	got, err := explicitOptions(c, options)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"json":         true,
		"max_failures": 3,
		"ignore":       []string{"a/*", "b/*"},
	}, got)
}

func TestApplyFallback(t *testing.T) {
	options := []option{
		{name: "json", value: false},
		{name: "format", value: "yaml"},
		{name: "ignore", value: []string{}},
	}

	t.Run("fills unset flags", func(t *testing.T) {
		c := newOptionCommand(t, options...)
		fallback := map[string]any{
			"json":    true,
			"format":  "toml",
			"ignore":  []any{"scratch/*", "build"},
			"markers": map[string]any{"wip": "Work in progress."},
		}

		require.NoError(t, applyFallback(c, options, fallback, "/repo/pyproject.toml"))

		got, err := c.Flags().GetBool("json")
		require.NoError(t, err)
		assert.True(t, got)
		format, _ := c.Flags().GetString("format")
		assert.Equal(t, "toml", format)
		ignore, _ := c.Flags().GetStringSlice("ignore")
		assert.Equal(t, []string{"scratch/*", "build"}, ignore)
	})

	t.Run("never overwrites explicit flags", func(t *testing.T) {
		c := newOptionCommand(t, options...)
		require.NoError(t, c.ParseFlags([]string{"--format", "json"}))

		require.NoError(t, applyFallback(c, options, map[string]any{"format": "toml"}, "/repo/pyproject.toml"))

		format, _ := c.Flags().GetString("format")
		assert.Equal(t, "json", format)
	})

	t.Run("rejects values the flag cannot take", func(t *testing.T) {
		c := newOptionCommand(t, options...)

		err := applyFallback(c, options, map[string]any{"json": "maybe"}, "/repo/pyproject.toml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidOption))
		assert.Contains(t, errors.SuggestionOf(err), "json in /repo/pyproject.toml")
	})

	t.Run("rejects a list for a scalar flag", func(t *testing.T) {
		c := newOptionCommand(t, options...)

		err := applyFallback(c, options, map[string]any{"format": []any{"a"}}, "/repo/pyproject.toml")
		assert.True(t, errors.Is(err, errors.ErrInvalidOption))
	})
}

func TestCommandRegistry(t *testing.T) {
	reg := commandRegistry()

	for _, name := range []string{"collect", "config", "markers"} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, "registry should contain %s", name)
	}
	_, ok := reg.Lookup("version")
	assert.False(t, ok, "version declares no options")

	borrowed := config.BorrowedDefaults(reg, "config")
	assert.Equal(t, false, borrowed["json"])
	assert.Equal(t, false, borrowed["debug_pytask"])
	assert.Equal(t, []string{}, borrowed["ignore"])
	assert.NotContains(t, borrowed, "format")
}
