package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// The exec-backed collaborators run configured external commands. The traced
// file list is appended to the configured argv; target metadata travels in
// SHIPGRAPH_* environment variables so any bundler CLI can be wired without
// tool-specific flag handling here.

// ExecBundler invokes an external bundler command.
type ExecBundler struct {
	Command []string
}

func (b *ExecBundler) Bundle(ctx context.Context, req BundleRequest) error {
	if len(b.Command) == 0 {
		return errors.New("no bundler command configured")
	}
	env := []string{
		"SHIPGRAPH_OUT_DIR=" + req.OutDir,
		"SHIPGRAPH_TARGET=" + req.Target,
	}
	return runCommand(ctx, b.Command, req.Entries, env)
}

// ExecRollup invokes an external declaration rollup command.
type ExecRollup struct {
	Command []string
}

func (r *ExecRollup) Rollup(ctx context.Context, entries []string, outDir string) error {
	if len(r.Command) == 0 {
		return errors.New("no declaration rollup command configured")
	}
	return runCommand(ctx, r.Command, entries, []string{"SHIPGRAPH_OUT_DIR=" + outDir})
}

// ExecLinter invokes an external documentation linter command.
type ExecLinter struct {
	Command []string
}

func (l *ExecLinter) Lint(ctx context.Context, files []string) error {
	if len(l.Command) == 0 {
		return errors.New("no lint command configured")
	}
	return runCommand(ctx, l.Command, files, nil)
}

// runCommand executes argv with extraArgs appended, surfacing combined
// output in the error on failure.
func runCommand(ctx context.Context, argv, extraArgs, extraEnv []string) error {
	args := append(append([]string{}, argv[1:]...), extraArgs...)
	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.Env = append(os.Environ(), extraEnv...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", argv[0], err, out)
	}
	return nil
}
