// Package config handles application configuration and command-line argument parsing.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/joe/pathops/pkg/fileops"
	"github.com/joe/pathops/pkg/filesystem"
)

// Command names, one per subcommand.
const (
	CommandCopy   = "copy"
	CommandDelete = "delete"
	CommandFlags  = "flags"
	CommandMirror = "mirror"
	CommandMkdir  = "mkdir"
	CommandMove   = "move"
	CommandSize   = "size"
)

// Exported variables.
var (
	ErrNoCommand    = errors.New("a command is required (copy, move, delete, mirror, flags, size, mkdir)")
	ErrInvalidValue = errors.New("invalid configuration value")
)

// CopyCmd copies a path, or every match of a wildcard pattern, to a destination.
type CopyCmd struct {
	Source string `arg:"positional,required" help:"source path or wildcard pattern; end a directory with / to copy its contents"`
	Dest   string `arg:"positional,required" help:"destination; a trailing / marks a directory"`
}

// MoveCmd moves a path, or every match of a wildcard pattern, to a destination.
type MoveCmd struct {
	Source string `arg:"positional,required" help:"source path or wildcard pattern; end a directory with /"`
	Dest   string `arg:"positional,required" help:"destination; a trailing / marks a directory"`
}

// DeleteCmd deletes paths or wildcard matches.
type DeleteCmd struct {
	Targets []string `arg:"positional,required" help:"paths or wildcard patterns; end a directory with / to delete its tree"`
}

// MirrorCmd replays a source tree's files onto a target tree.
type MirrorCmd struct {
	Source  string             `arg:"positional,required" help:"tree whose files are listed"`
	Target  string             `arg:"positional,required" help:"tree the operation is applied to"`
	Mode    fileops.MirrorMode `arg:"-m,--mode" default:"delete" help:"delete|copy"`
	Include string             `arg:"--include" help:"only mirror relative paths matching this glob (case-insensitive)"`
}

// FlagsCmd writes one empty flag file per wildcard match.
type FlagsCmd struct {
	Pattern   string `arg:"positional,required" help:"wildcard pattern"`
	OutputDir string `arg:"positional,required" help:"directory that receives the flag files"`
}

// SizeCmd prints the total size of paths.
type SizeCmd struct {
	Paths []string `arg:"positional,required" help:"files or directories"`
}

// MkdirCmd creates directories and their parents.
type MkdirCmd struct {
	Paths []string `arg:"positional,required" help:"directories to create"`
}

// Config holds the application configuration
//
//nolint:lll // struct tags carry the CLI help text
type Config struct {
	Copy   *CopyCmd   `arg:"subcommand:copy" help:"copy files or directory trees"`
	Move   *MoveCmd   `arg:"subcommand:move" help:"move files or directory trees"`
	Delete *DeleteCmd `arg:"subcommand:delete" help:"delete files or directory trees"`
	Mirror *MirrorCmd `arg:"subcommand:mirror" help:"mirror a delete or copy from one tree onto another"`
	Flags  *FlagsCmd  `arg:"subcommand:flags" help:"create empty flag files named after wildcard matches"`
	Size   *SizeCmd   `arg:"subcommand:size" help:"print the total size of files or directory trees"`
	Mkdir  *MkdirCmd  `arg:"subcommand:mkdir" help:"create directories and missing parents"`

	LogSource  string `arg:"--log-source,env:PATHOPS_LOG_SOURCE" help:"append every processed source path to this journal"`
	LogDest    string `arg:"--log-dest,env:PATHOPS_LOG_DEST" help:"append every written destination path to this journal"`
	BufferSize int    `arg:"--buffer-size,env:PATHOPS_BUFFER_SIZE" default:"16384" help:"copy chunk size in bytes"`
	Root       string `arg:"--root,env:PATHOPS_ROOT" default:"/" help:"root-volume prefix stripped before creating directories"`
	Remote     string `arg:"--remote,env:PATHOPS_REMOTE" help:"run against a remote host: sftp://user@host[:port]/base"`
	LogLevel   string `arg:"--log-level,env:PATHOPS_LOG_LEVEL" default:"info" help:"debug|info|warn|error"`
	LogFile    string `arg:"--log-file,env:PATHOPS_LOG_FILE" help:"write diagnostics to this file instead of stderr"`
	Dev        bool   `arg:"--dev" help:"human-readable debug logging"`
	NoProgress bool   `arg:"--no-progress" help:"never show the progress UI, even on a terminal"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Copy, move, delete and mirror file trees with progress and cancellation"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "pathops 1.0.0"
}

// Command returns the name of the selected subcommand, or "" when none was given.
func (cfg *Config) Command() string {
	switch {
	case cfg.Copy != nil:
		return CommandCopy
	case cfg.Move != nil:
		return CommandMove
	case cfg.Delete != nil:
		return CommandDelete
	case cfg.Mirror != nil:
		return CommandMirror
	case cfg.Flags != nil:
		return CommandFlags
	case cfg.Size != nil:
		return CommandSize
	case cfg.Mkdir != nil:
		return CommandMkdir
	default:
		return ""
	}
}

// newDefaultConfig returns a Config holding the defaults go-arg would apply.
func newDefaultConfig() *Config {
	return &Config{
		BufferSize: fileops.BufferSize,
		Root:       fileops.DefaultRootVolume,
		LogLevel:   "info",
	}
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := newDefaultConfig()

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// Parse parses args (without the program name). arg.ErrHelp and arg.ErrVersion
// are returned unchanged so the caller can print usage.
func Parse(args []string) (*Config, error) {
	cfg := newDefaultConfig()

	parser, err := arg.NewParser(arg.Config{Program: "pathops"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build argument parser: %w", err)
	}

	if err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return PostProcessConfig(cfg)
}

// PostProcessConfig validates a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.Command() == "" {
		return nil, ErrNoCommand
	}

	if cfg.BufferSize <= 0 {
		return nil, fmt.Errorf("%w: buffer size must be positive, got %d", ErrInvalidValue, cfg.BufferSize)
	}

	if cfg.Root == "" {
		cfg.Root = fileops.DefaultRootVolume
	}

	if cfg.Remote != "" {
		if err := validateRemote(cfg.Remote); err != nil {
			return nil, err
		}
	}

	if err := cfg.validatePaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validatePaths rejects empty path arguments, which go-arg accepts as "".
func (cfg *Config) validatePaths() error {
	var paths []string

	switch cfg.Command() {
	case CommandCopy:
		paths = []string{cfg.Copy.Source, cfg.Copy.Dest}
	case CommandMove:
		paths = []string{cfg.Move.Source, cfg.Move.Dest}
	case CommandDelete:
		paths = cfg.Delete.Targets
	case CommandMirror:
		paths = []string{cfg.Mirror.Source, cfg.Mirror.Target}
	case CommandFlags:
		paths = []string{cfg.Flags.Pattern, cfg.Flags.OutputDir}
	case CommandSize:
		paths = cfg.Size.Paths
	case CommandMkdir:
		paths = cfg.Mkdir.Paths
	}

	if len(paths) == 0 {
		return fmt.Errorf("%w: %s needs at least one path", ErrInvalidValue, cfg.Command())
	}

	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: %s was given an empty path", ErrInvalidValue, cfg.Command())
		}
	}

	return nil
}

// validateRemote checks the shape of a --remote URL before any connection is attempted.
func validateRemote(remote string) error {
	parsed, err := filesystem.ParsePath(remote)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	if !parsed.IsRemote {
		return fmt.Errorf("%w: remote must be an sftp:// URL: %s", ErrInvalidValue, remote)
	}

	return nil
}
