package slurm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Array = 0
	cfg.Logs = "/scratch/logs/run"

	got := Header(cfg)
	want := []string{
		"#!/bin/bash",
		"#SBATCH --nodes 1",
		"#SBATCH --partition=serial",
		"#SBATCH --ntasks-per-node 1",
		"#SBATCH --cpus-per-task 1",
		"#SBATCH --mem 4096",
		"#SBATCH --time 10:00:00",
		"#SBATCH --output=/scratch/logs/run.%A.out",
		"#SBATCH --error=/scratch/logs/run.%A.err",
	}
	for _, line := range want {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("header missing line %q:\n%s", line, got)
		}
	}
	if strings.Contains(got, "--array") {
		t.Error("header should not contain an array line when Array is 0")
	}
}

func TestHeaderArray(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Array = 100
	cfg.Logs = "run"

	got := Header(cfg)
	if !strings.Contains(got, "#SBATCH --array=1-100\n") {
		t.Errorf("missing array line:\n%s", got)
	}
	if !strings.Contains(got, "--output=run.%A.%a.out") {
		t.Errorf("array logs need the per-task sublog:\n%s", got)
	}
	if !strings.Contains(got, "--error=run.%A.%a.err") {
		t.Errorf("array logs need the per-task sublog:\n%s", got)
	}
}

func TestHeaderLogsDir(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Array = 0
	cfg.Logs = dir

	got := Header(cfg)
	if !strings.Contains(got, filepath.Join(dir, "_output")+".%A.out") {
		t.Errorf("directory log paths should gain an _output prefix:\n%s", got)
	}
}

func TestArrayScript(t *testing.T) {
	cfg := DefaultConfig()
	tpl := JobTemplate{
		ScratchDir: "/scratch/user",
		RunPrefix:  "2H4E2H",
		ArraySize:  200,
		Binary:     "/apps/rosetta/rosetta_scripts",
		NStruct:    10,
	}

	got := ArrayScript(cfg, tpl)
	if !strings.Contains(got, "#SBATCH --array=1-200\n") {
		t.Errorf("array size not taken from the template:\n%s", got)
	}
	if !strings.Contains(got, "cd /scratch/user\n") {
		t.Errorf("missing scratch cd:\n%s", got)
	}
	wantCmd := "/apps/rosetta/rosetta_scripts -parser:protocol funfoldes.xml" +
		" -in:file:s sketch_0001.pdb -out:nstruct 10" +
		" -out:prefix 2H4E2H_$SLURM_ARRAY_TASK_ID" +
		" -out:file:silent out/2H4E2H_$SLURM_ARRAY_TASK_ID" +
		" -out:mute protocols.abinitio protocols.abinitio.foldconstraints"
	if !strings.Contains(got, wantCmd) {
		t.Errorf("invocation line mismatch:\n%s", got)
	}
}

func TestControlScript(t *testing.T) {
	got := ControlScript(DefaultConfig(), "/tmp/touch_control.42")
	if strings.Contains(got, "--array") {
		t.Error("control job must be a single task")
	}
	if !strings.Contains(got, "#SBATCH --mem 2046\n") {
		t.Errorf("control job runs with reduced memory:\n%s", got)
	}
	if !strings.Contains(got, "echo 'finished' > /tmp/touch_control.42\n") {
		t.Errorf("missing condition file write:\n%s", got)
	}
}

func TestSubmit(t *testing.T) {
	var gotArgs []string
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "sbatch" {
			t.Errorf("command = %q, want sbatch", name)
		}
		gotArgs = args
		return []byte("123456\n"), nil
	}

	s := NewSubmitter(DefaultConfig(), WithRunner(run))
	id, err := s.Submit(context.Background(), "job.sh")
	if err != nil {
		t.Fatal(err)
	}
	if id != 123456 {
		t.Errorf("job id = %d, want 123456", id)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "--parsable" || gotArgs[1] != "job.sh" {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestSubmitDependent(t *testing.T) {
	var gotArgs []string
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte("99"), nil
	}

	s := NewSubmitter(DefaultConfig(), WithRunner(run))
	if _, err := s.SubmitDependent(context.Background(), "ctl.sh", "afterany", 123456); err != nil {
		t.Fatal(err)
	}
	if len(gotArgs) != 3 || gotArgs[0] != "--depend=afterany:123456" {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestSubmitBadOutput(t *testing.T) {
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("sbatch: error"), nil
	}
	s := NewSubmitter(DefaultConfig(), WithRunner(run))
	if _, err := s.Submit(context.Background(), "job.sh"); err == nil {
		t.Error("expected parse error for non-numeric sbatch output")
	}
}

func TestSubmitRunnerError(t *testing.T) {
	boom := errors.New("no scheduler")
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, boom
	}
	s := NewSubmitter(DefaultConfig(), WithRunner(run))
	if _, err := s.Submit(context.Background(), "job.sh"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped runner error", err)
	}
}

func TestSubmitAndWait(t *testing.T) {
	var submissions [][]string
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		submissions = append(submissions, args)
		if len(submissions) == 2 {
			// The control job writes the condition file. The fake finishes
			// it instantly.
			script := args[len(args)-1]
			data, err := os.ReadFile(script)
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			last := lines[len(lines)-1]
			cond := strings.TrimPrefix(last, "echo 'finished' > ")
			if err := os.WriteFile(cond, []byte("finished\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		return []byte("7"), nil
	}

	s := NewSubmitter(DefaultConfig(), WithRunner(run), WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.SubmitAndWait(ctx, "job.sh"); err != nil {
		t.Fatal(err)
	}

	if len(submissions) != 2 {
		t.Fatalf("submissions = %d, want main + control", len(submissions))
	}
	if submissions[1][0] != "--depend=afterany:7" {
		t.Errorf("control job dependency = %v", submissions[1])
	}
}

func TestWaitForCancelled(t *testing.T) {
	s := NewSubmitter(DefaultConfig(), WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.WaitFor(ctx, filepath.Join(t.TempDir(), "never"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
