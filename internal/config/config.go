package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/bethropolis/exscan/internal/ignore"
	"github.com/bethropolis/exscan/internal/policy"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Config holds all application configuration settings
type Config struct {
	// Directory settings
	RootDir string

	// Exclusion settings
	PolicyFile string
	Exclusions []string
	IgnoreFile string

	// Logging settings
	Verbose     bool
	Quiet       bool
	LogLevel    string
	NoColor     bool
	UseColors   bool
	OutputFile  string
	ShowSkipped bool

	// Processing settings
	Concurrent    bool
	MaxWorkers    int
	MaxFileSizeMB int64
	ShowProgress  bool
	Timeout       time.Duration

	// Filtering settings
	IgnoreHidden bool
	IgnoreGit    bool
	Extensions   []string
	NoFilters    bool

	// Output format
	JSONOutput     bool
	MarkdownOutput bool

	// check command: entry kind for paths that do not exist
	EntryType string

	Version string
}

// Default returns the configuration used when no flags are given
func Default() *Config {
	return &Config{
		RootDir:    ".",
		LogLevel:   "info",
		MaxWorkers: runtime.NumCPU(),
		IgnoreGit:  true,
		EntryType:  "file",
		Version:    "1.0.0",
	}
}

// BindGlobalFlags registers flags shared by every command
func (c *Config) BindGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.PolicyFile, "policy", "p", c.PolicyFile, "Scan policy file with exclusions (.yaml, .json or .xml)")
	flags.StringArrayVarP(&c.Exclusions, "exclude", "e", c.Exclusions, "Exclusion to add after the policy's (repeatable)")
	flags.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Enable debug logging")
	flags.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "Only show warnings and errors")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Set the logging level (debug, info, warn, error, none)")
	flags.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable color output")
}

// BindScanFlags registers the flags of the scan command
func (c *Config) BindScanFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.IgnoreFile, "ignore-file", c.IgnoreFile, "Honour gitignore-syntax files with this name (e.g. "+ignore.DefaultIgnoreFile+")")
	flags.BoolVar(&c.IgnoreHidden, "hidden", c.IgnoreHidden, "Skip hidden files/directories (starting with '.')")
	flags.BoolVar(&c.IgnoreGit, "git", c.IgnoreGit, "Skip .git directories")
	flags.BoolVar(&c.NoFilters, "all", c.NoFilters, "List every file, ignoring exclusions and ignore rules")
	flags.BoolVar(&c.Concurrent, "concurrent", c.Concurrent, "Enable concurrent file processing")
	flags.IntVar(&c.MaxWorkers, "workers", c.MaxWorkers, "Max number of concurrent workers")
	flags.Int64Var(&c.MaxFileSizeMB, "max-size", c.MaxFileSizeMB, "Max file size to list in MB (0 = no limit)")
	flags.StringSliceVar(&c.Extensions, "ext", c.Extensions, "Only include files with these extensions (e.g. 'so,bin')")
	flags.StringVarP(&c.OutputFile, "output", "o", c.OutputFile, "Output to file instead of stdout")
	flags.BoolVar(&c.ShowProgress, "progress", c.ShowProgress, "Show progress information")
	flags.DurationVar(&c.Timeout, "timeout", c.Timeout, "Maximum execution time (e.g. '30s', '5m')")
	flags.BoolVar(&c.ShowSkipped, "show-skipped", c.ShowSkipped, "List skipped files/directories and reasons at the end")
	flags.BoolVar(&c.JSONOutput, "json", c.JSONOutput, "Output results in JSON format")
	flags.BoolVar(&c.MarkdownOutput, "markdown", c.MarkdownOutput, "Output results as a Markdown table")
}

// BindCheckFlags registers the flags of the check command
func (c *Config) BindCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.EntryType, "type", c.EntryType, "Entry kind for paths that do not exist (file, dir, other)")
}

// Finalize derives settings that depend on other settings and the terminal
func (c *Config) Finalize(stderrFd uintptr) {
	c.UseColors = !c.NoColor && isatty.IsTerminal(stderrFd) && c.OutputFile == ""
	if c.Quiet && !c.Verbose {
		c.LogLevel = "warn"
	}
	if c.Verbose {
		c.LogLevel = "debug"
	}
	c.Extensions = cleanList(c.Extensions)
}

// ApplyPolicy fills settings the policy provides unless the named flag was
// set on the command line.
func (c *Config) ApplyPolicy(p *policy.Policy, changed func(flag string) bool) {
	if p == nil {
		return
	}
	if p.ExcludeHidden && !changed("hidden") {
		c.IgnoreHidden = true
	}
	if p.IgnoreFile != "" && !changed("ignore-file") {
		c.IgnoreFile = p.IgnoreFile
	}
}

func cleanList(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
