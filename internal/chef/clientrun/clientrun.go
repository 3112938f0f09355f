// Package clientrun locates and invokes the local chef-client executable to
// trigger a convergence run.
//
// Each invocation is a single linear sequence: discover the executable, check
// the skip-file, assemble the command line, optionally write a run-list temp
// file, execute, split the output into lines, and clean up. No state is
// shared between invocations.
package clientrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tombee/chefctl/internal/config"
	chefctllog "github.com/tombee/chefctl/internal/log"
)

const executableName = "chef-client"

// fallbackPaths are checked in order when chef-client is not on the system
// path. Omnibus installs land in /opt/chef; older Opscode packages used
// /opt/opscode.
var fallbackPaths = []string{
	"/opt/chef/bin/chef-client",
	"/opt/opscode/bin/chef-client",
}

// ErrExecutableNotFound is returned when chef-client cannot be located.
// The message is part of the external contract; tooling matches on it.
var ErrExecutableNotFound = errors.New("Unable to locate chef-client executable.")

// SkipfileError is returned when a convergence run is blocked by the presence
// of the skip-file. Its message names the resolved skip-file path.
type SkipfileError struct {
	Path string
}

func (e *SkipfileError) Error() string {
	return fmt.Sprintf("Skipfile is present at %s, skipping", e.Path)
}

// RunOptions configure a convergence run. Zero values mean "not supplied";
// unsupplied options add no flags.
type RunOptions struct {
	// Force skips the skip-file check and runs unconditionally.
	Force bool

	// RunList overrides the node's run-list. When non-nil (even empty) it is
	// written to a temporary JSON attributes file passed via --json-attributes.
	RunList []string

	// KeyFile is an alternative client key path. The flag is added only when
	// the file exists on disk.
	KeyFile string

	// ValidationKey is a validation.pem path for automatic client
	// registration. The flag is added only when the file exists on disk.
	ValidationKey string

	// Server overrides the chef_server_url from client.rb.
	Server string

	// Environment selects the Chef environment to converge in.
	Environment string

	// LogLevel controls chef-client logging verbosity.
	LogLevel string

	// NodeName overrides the node name used to authenticate with the server.
	NodeName string

	// DryRun requests a why-run (no-op) convergence. Presence triggers the
	// flag: any supplied value, including false, adds --why-run.
	DryRun *bool
}

// Facade locates and invokes chef-client.
type Facade struct {
	resolver   config.Resolver
	runner     CommandRunner
	logger     *slog.Logger
	lookPath   func(string) (string, error)
	fileExists func(string) bool
}

// New creates a Facade with the given configuration resolver and command
// runner.
func New(resolver config.Resolver, runner CommandRunner, logger *slog.Logger) *Facade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		resolver:   resolver,
		runner:     runner,
		logger:     chefctllog.WithComponent(logger, "chef-client"),
		lookPath:   exec.LookPath,
		fileExists: fileExists,
	}
}

// WithLookPath overrides executable path lookup.
func (f *Facade) WithLookPath(fn func(string) (string, error)) *Facade {
	f.lookPath = fn
	return f
}

// WithFileExists overrides filesystem existence checks.
func (f *Facade) WithFileExists(fn func(string) bool) *Facade {
	f.fileExists = fn
	return f
}

// LocateExecutable finds the chef-client executable: first on the system
// path, then at the fixed fallback locations in order. Returns
// ErrExecutableNotFound when none exist.
func (f *Facade) LocateExecutable() (string, error) {
	if path, err := f.lookPath(executableName); err == nil {
		return path, nil
	}

	for _, candidate := range fallbackPaths {
		if f.fileExists(candidate) {
			return candidate, nil
		}
	}

	return "", ErrExecutableNotFound
}

// Version returns the installed chef-client version: the last
// whitespace-delimited token of `chef-client -v` output
// ("Chef: 11.4.0" -> "11.4.0").
func (f *Facade) Version(ctx context.Context) (string, error) {
	exe, err := f.LocateExecutable()
	if err != nil {
		return "", err
	}

	cmd := newCommandLine(exe)
	cmd.addSwitch("-v")

	out, err := f.runner.Run(ctx, cmd.Render())
	if err != nil {
		return "", fmt.Errorf("chef-client version check failed: %w", err)
	}

	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", fmt.Errorf("chef-client -v produced no output")
	}
	return fields[len(fields)-1], nil
}

// Run triggers a convergence run and returns the captured output split into
// lines. Unless Force is set, the run aborts with a SkipfileError when the
// resolved skip-file exists. Flags are appended in a fixed order: run-list
// attributes, client key, validation key, server, environment, log level,
// node name, why-run.
func (f *Facade) Run(ctx context.Context, opts RunOptions) ([]string, error) {
	exe, err := f.LocateExecutable()
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		skipfile := f.resolver.Option(config.KeySkipfile, config.DefaultSkipfile)
		if f.fileExists(skipfile) {
			return nil, &SkipfileError{Path: skipfile}
		}
	}

	cmd := newCommandLine(exe)

	if opts.RunList != nil {
		runListPath, err := writeRunListFile(opts.RunList)
		if err != nil {
			return nil, err
		}
		defer os.Remove(runListPath)
		cmd.addFlag("--json-attributes", runListPath)
	}

	if opts.KeyFile != "" && f.fileExists(opts.KeyFile) {
		cmd.addFlag("--client_key", opts.KeyFile)
	}
	if opts.ValidationKey != "" && f.fileExists(opts.ValidationKey) {
		cmd.addFlag("--validation_key", opts.ValidationKey)
	}
	if opts.Server != "" {
		cmd.addFlag("--server", opts.Server)
	}
	if opts.Environment != "" {
		cmd.addFlag("--environment", opts.Environment)
	}
	if opts.LogLevel != "" {
		cmd.addFlag("--log_level", opts.LogLevel)
	}
	if opts.NodeName != "" {
		cmd.addFlag("--node-name", opts.NodeName)
	}
	if opts.DryRun != nil {
		cmd.addSwitch("--why-run")
	}

	// The run blocks until chef-client exits unless a timeout is configured.
	if v := f.resolver.Option(config.KeyTimeout, ""); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", config.KeyTimeout, v, err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
		defer cancel()
	}

	runID := uuid.NewString()
	logger := f.logger.With(slog.String(chefctllog.RunIDKey, runID))
	logger.Info("starting chef-client run", slog.String("command", cmd.Render()))

	start := time.Now()
	out, err := f.runner.Run(ctx, cmd.Render())
	if err != nil {
		logger.Error("chef-client run failed",
			slog.Any("error", err),
			slog.Int64(chefctllog.DurationKey, time.Since(start).Milliseconds()))
		return nil, fmt.Errorf("chef-client run failed: %w", err)
	}

	logger.Info("chef-client run finished",
		slog.Int64(chefctllog.DurationKey, time.Since(start).Milliseconds()))

	return strings.Split(out, "\n"), nil
}

// writeRunListFile writes {"run_list": [...]} to a fresh temporary file and
// returns its path. The caller removes the file once the run completes.
func writeRunListFile(runList []string) (string, error) {
	if runList == nil {
		runList = []string{}
	}

	payload, err := json.Marshal(struct {
		RunList []string `json:"run_list"`
	}{RunList: runList})
	if err != nil {
		return "", fmt.Errorf("failed to encode run list: %w", err)
	}

	tmp, err := os.CreateTemp("", "chefctl-run-list-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create run list file: %w", err)
	}

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write run list file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close run list file: %w", err)
	}

	return tmp.Name(), nil
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
