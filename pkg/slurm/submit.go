package slurm

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Runner executes an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Submitter submits scripts to the scheduler and waits on their results.
type Submitter struct {
	cfg  Config
	run  Runner
	log  *log.Logger
	poll time.Duration
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithRunner replaces the command runner. Tests use this to fake sbatch.
func WithRunner(r Runner) Option {
	return func(s *Submitter) { s.run = r }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Submitter) { s.log = l }
}

// WithPollInterval sets how often SubmitAndWait checks the condition file.
func WithPollInterval(d time.Duration) Option {
	return func(s *Submitter) { s.poll = d }
}

// NewSubmitter creates a Submitter for the given scheduler settings.
func NewSubmitter(cfg Config, opts ...Option) *Submitter {
	s := &Submitter{
		cfg:  cfg,
		run:  ExecRunner,
		log:  log.Default(),
		poll: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit hands a script to sbatch and returns the assigned job id.
func (s *Submitter) Submit(ctx context.Context, script string) (int, error) {
	return s.submit(ctx, script, "", 0)
}

// SubmitDependent submits a script that only starts once job id reaches the
// given dependency state, e.g. "afterany".
func (s *Submitter) SubmitDependent(ctx context.Context, script, mode string, id int) (int, error) {
	return s.submit(ctx, script, mode, id)
}

func (s *Submitter) submit(ctx context.Context, script, mode string, id int) (int, error) {
	args := []string{}
	if mode != "" {
		args = append(args, fmt.Sprintf("--depend=%s:%d", mode, id))
	}
	args = append(args, "--parsable", script)

	s.log.Debug("submitting job", "script", script, "args", args)
	out, err := s.run(ctx, "sbatch", args...)
	if err != nil {
		return 0, fmt.Errorf("sbatch %s: %w", script, err)
	}
	jobID, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("parse sbatch output %q: %w", strings.TrimSpace(string(out)), err)
	}
	return jobID, nil
}

// SubmitAndWait submits the script, chains a control job behind it with an
// afterany dependency, and blocks until the control job writes its condition
// file or ctx is cancelled.
func (s *Submitter) SubmitAndWait(ctx context.Context, script string) error {
	dir, err := os.MkdirTemp("", "slurm_control")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	conditionFile := filepath.Join(dir, fmt.Sprintf("touch_control.%d", os.Getpid()))
	controlScript := filepath.Join(dir, fmt.Sprintf("slurm_control.%d.sh", os.Getpid()))
	if err := os.WriteFile(controlScript, []byte(ControlScript(s.cfg, conditionFile)), 0755); err != nil {
		return fmt.Errorf("write control script: %w", err)
	}

	mainID, err := s.Submit(ctx, script)
	if err != nil {
		return err
	}
	s.log.Info("job submitted", "id", mainID, "script", script)

	if _, err := s.SubmitDependent(ctx, controlScript, "afterany", mainID); err != nil {
		return err
	}
	return s.WaitFor(ctx, conditionFile)
}

// WaitFor polls until path exists or ctx is cancelled.
func (s *Submitter) WaitFor(ctx context.Context, path string) error {
	start := time.Now()
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(path); err == nil {
			s.log.Info("job finished", "waited", time.Since(start).Round(time.Second))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
