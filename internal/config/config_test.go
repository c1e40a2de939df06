package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"imgtriage/internal/config"
	"imgtriage/internal/errors"
	"imgtriage/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
settings:
  save_action: move
  sort_variant:
    creationdate:
      format: "%Y/%m"
  target_directory: "/srv/photos"
  collision: rename
  concurrency: 8
import:
  extensions: [png, jpg]
watch:
  enabled: false
theme:
  name: ocean
  border: "99"
logging:
  file: /tmp/imgtriage.log
  debug: true
`
	invalidSyntaxYAML = `
settings:
  save_action: "copy
`
	invalidActionYAML = `
settings:
  save_action: delete
`
	invalidSortYAML = `
settings:
  sort_variant:
    creationdate:
      format: ""
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)

		assert.Equal(t, types.MoveAction, cfg.Settings.SaveAction)
		require.NotNil(t, cfg.Settings.SortVariant)
		require.NotNil(t, cfg.Settings.SortVariant.CreationDate)
		assert.Equal(t, "%Y/%m", cfg.Settings.SortVariant.CreationDate.Format)
		assert.Equal(t, "/srv/photos", cfg.Settings.TargetDirectory)
		assert.Equal(t, "rename", cfg.Settings.Collision)
		assert.Equal(t, 8, cfg.Settings.Concurrency)
		assert.Equal(t, []string{"png", "jpg"}, cfg.Import.Extensions)
		assert.False(t, cfg.Watch.Enabled)
		assert.Equal(t, "ocean", cfg.Theme.Name)
		assert.Equal(t, "31", cfg.Theme.Primary)
		assert.Equal(t, "99", cfg.Theme.Border)
		assert.True(t, cfg.Logging.Debug)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "does_not_exist.yaml"))
		require.NoError(t, err, "Loading non-existent file should return default config, not an error")
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "settings:\n  target_directory: /out\n"))
		require.NoError(t, err)
		assert.Equal(t, types.CopyAction, cfg.Settings.SaveAction)
		assert.Equal(t, "skip", cfg.Settings.Collision)
		assert.Equal(t, 4, cfg.Settings.Concurrency)
		assert.Equal(t, config.DefaultExtensions, cfg.Import.Extensions)
		assert.True(t, cfg.Watch.Enabled)
		assert.Nil(t, cfg.Settings.SortVariant)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("invalid save action", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidActionYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid save action")
	})

	t.Run("empty sort format", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSortYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sort_variant")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults", func(c *config.Config) {}, false},
		{"bad collision", func(c *config.Config) { c.Settings.Collision = "overwrite" }, true},
		{"zero concurrency", func(c *config.Config) { c.Settings.Concurrency = 0 }, true},
		{"dotted extension", func(c *config.Config) { c.Import.Extensions = []string{".png"} }, true},
		{"sort without params", func(c *config.Config) { c.Settings.SortVariant = &types.SortSpec{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.New()
	cfg.Settings.TargetDirectory = "/out"
	cfg.Settings.SortVariant = &types.SortSpec{CreationDate: &types.CreationDateParams{Format: "%Y"}}
	cfg.Watch.Enabled = false

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestThemes(t *testing.T) {
	for _, name := range config.ListThemes() {
		theme := config.GetTheme(name)
		assert.NotEmpty(t, theme["primary"], name)
	}
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("no-such-theme"))
}
