package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	chilithemer "github.com/kataras/chili-themer"
	"github.com/kataras/chili-themer/pkg/config"
	"github.com/kataras/chili-themer/pkg/conversion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textConfig = `defaultTheme: base
themeTags: ["theme:"]
conversions:
  - kind: text-variables
    layerTags: ["copy"]
    options:
      nameLength: 6
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name          string
		config        string
		flags         map[string]string
		wantTags      [][]string
		wantLength    any
		wantTheme     string
		wantThemeTags []string
	}{
		{
			name:          "no config",
			flags:         map[string]string{"theme-tags": "theme:"},
			wantTags:      [][]string{{"text"}},
			wantLength:    8,
			wantTheme:     "default",
			wantThemeTags: []string{"theme:"},
		},
		{
			name:          "config only",
			config:        textConfig,
			wantTags:      [][]string{{"copy"}},
			wantLength:    6,
			wantTheme:     "base",
			wantThemeTags: []string{"theme:"},
		},
		{
			name:          "text tags replace the config's",
			config:        textConfig,
			flags:         map[string]string{"text-tags": "text, body"},
			wantTags:      [][]string{{"text", "body"}},
			wantLength:    6,
			wantTheme:     "base",
			wantThemeTags: []string{"theme:"},
		},
		{
			name:          "name length overrides the config's",
			config:        textConfig,
			flags:         map[string]string{"name-length": "4", "default-theme": "plain"},
			wantTags:      [][]string{{"copy"}},
			wantLength:    4,
			wantTheme:     "plain",
			wantThemeTags: []string{"theme:"},
		},
		{
			name:          "config without conversions gets the default",
			config:        "themeTags: [\"look:\"]\n",
			flags:         map[string]string{"text-tags": "copy"},
			wantTags:      [][]string{{"copy"}},
			wantLength:    8,
			wantTheme:     "default",
			wantThemeTags: []string{"look:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			if tt.config != "" {
				require.NoError(t, cmd.Flags().Set("config", writeConfig(t, tt.config)))
			}
			for name, value := range tt.flags {
				require.NoError(t, cmd.Flags().Set(name, value))
			}

			cfg, err := loadConfig(cmd)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTheme, cfg.DefaultTheme)
			assert.Equal(t, tt.wantThemeTags, cfg.ThemeTags)

			var tags [][]string
			for _, c := range cfg.Conversions {
				assert.Equal(t, conversion.KindTextVariables, c.Kind)
				assert.Equal(t, tt.wantLength, c.Options["nameLength"])
				tags = append(tags, c.LayerTags)
			}
			assert.Equal(t, tt.wantTags, tags)
		})
	}
}

func TestLoadConfig_TextTagsDeclareOnce(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Set("config", writeConfig(t, textConfig)))
	require.NoError(t, cmd.Flags().Set("text-tags", "text"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	builder, err := config.NewBuilder(cfg)
	require.NoError(t, err)
	defer builder.Close()

	convs, err := builder.Conversions()
	require.NoError(t, err)
	require.Len(t, convs, 1)

	result, err := chilithemer.Run(context.Background(), chilithemer.Options{
		Document:     document,
		DefaultTheme: cfg.DefaultTheme,
		ThemeTags:    cfg.ThemeTags,
		Conversions:  convs,
	})
	require.NoError(t, err)

	require.Len(t, result.Variables, 1)
	assert.Equal(t, "Hi", result.Variables[0].Value)
	assert.Equal(t, "aaaaaa", result.Variables[0].Name)
}
