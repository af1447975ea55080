package main

import (
	"context"
	"fmt"
	"os"

	chilithemer "github.com/kataras/chili-themer"
	"github.com/kataras/chili-themer/pkg/chili"
	"github.com/kataras/chili-themer/pkg/config"
	"github.com/kataras/chili-themer/pkg/conversion"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = chili.Version

var (
	inputFile    string
	outputFile   string
	configFile   string
	defaultTheme string
	themeTags    string
	textTags     string
	nameLength   int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chili-themer",
		Short: "Turn CHILI documents into themed templates",
		Long:  "A tool to group CHILI document layers into themes, convert their text frames into shared variables, and record the theme structure in the document",
		Run:   run,
	}

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "CHILI document XML file (required)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "themed.xml", "Output XML file")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML or JSON config file (optional)")
	rootCmd.Flags().StringVarP(&defaultTheme, "default-theme", "d", "default", "Theme receiving layers that match no theme tag")
	rootCmd.Flags().StringVarP(&themeTags, "theme-tags", "t", "", "Comma-separated theme tags (e.g. \"theme:\")")
	rootCmd.Flags().StringVar(&textTags, "text-tags", "text", "Comma-separated layer tags converted to text variables, replacing the config's")
	rootCmd.Flags().IntVar(&nameLength, "name-length", 8, "Leading frame id characters used as variable names")

	rootCmd.MarkFlagRequired("input")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chili-themer version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd, newInspectCmd(), newServeCmd())
	return rootCmd
}

// loadConfig reads the config file, if any, and applies the command line overrides.
// --text-tags and --name-length rewrite the config's text-variables conversions
// in place; a text-variables conversion is only added when the config has none.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{DefaultTheme: defaultTheme}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cfg.DefaultTheme == "" || cmd.Flags().Changed("default-theme") {
		cfg.DefaultTheme = defaultTheme
	}
	if cmd.Flags().Changed("theme-tags") || configFile == "" {
		cfg.ThemeTags = chilithemer.ParseTags(themeTags)
	}

	tagsChanged := cmd.Flags().Changed("text-tags")
	lengthChanged := cmd.Flags().Changed("name-length")

	found := false
	for i := range cfg.Conversions {
		c := &cfg.Conversions[i]
		if c.Kind != conversion.KindTextVariables {
			continue
		}
		found = true

		if tagsChanged {
			c.LayerTags = chilithemer.ParseTags(textTags)
		}
		if lengthChanged {
			if c.Options == nil {
				c.Options = make(map[string]any)
			}
			c.Options["nameLength"] = nameLength
		}
	}

	if !found && (len(cfg.Conversions) == 0 || tagsChanged) {
		if tags := chilithemer.ParseTags(textTags); len(tags) > 0 {
			cfg.Conversions = append(cfg.Conversions, config.ConversionConfig{
				Kind:      conversion.KindTextVariables,
				LayerTags: tags,
				Options:   map[string]any{"nameLength": nameLength},
			})
		}
	}

	return cfg, nil
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n🎨 CHILI Themer")
	cyan.Println("================")
	cyan.Println()

	cfg, err := loadConfig(cmd)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	builder, err := config.NewBuilder(cfg)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer builder.Close()

	convs, err := builder.Conversions()
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	source, err := os.ReadFile(inputFile)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	result, err := chilithemer.Run(context.Background(), chilithemer.Options{
		Document:     string(source),
		DefaultTheme: cfg.DefaultTheme,
		ThemeTags:    cfg.ThemeTags,
		Conversions:  convs,
		Logger:       &cliLogger{},
	})
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cyan.Println("\n📊 Themes:")
	for _, t := range result.Themes {
		name := t.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("  • %s: %d conversion(s)\n", name, len(t.Conversions))
		for _, c := range t.Conversions {
			fmt.Printf("      - %s on layer %s\n", c.ConversionName, c.LayerID)
		}
	}
	fmt.Printf("  • Variables declared: %d\n", len(result.Variables))

	green.Printf("\n💾 Writing to %s... ", outputFile)
	if err := os.WriteFile(outputFile, []byte(result.XML), 0644); err != nil {
		red.Printf("✗\n")
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	green.Println("✓")

	green.Printf("\n✨ Successfully themed %s\n\n", inputFile)
}

// cliLogger implements chilithemer.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
