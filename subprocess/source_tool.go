package subprocess

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/irgsh/srcbuild/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/jasper"
	"github.com/pkg/errors"
)

// ErrToolFailed matches the errors of packaging tool invocations that could
// not be started or did not exit successfully.
var ErrToolFailed = errors.New("packaging tool failed")

const maxCapturedOutput = 1024 * 1024

// ToolError reports an unsuccessful packaging tool invocation.
type ToolError struct {
	Args             []string
	WorkingDirectory string
	// Output holds whatever the tool wrote when its output was captured
	// rather than redirected by the caller.
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("running '%s' in '%s': %v", strings.Join(e.Args, " "), e.WorkingDirectory, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

func (e *ToolError) Is(target error) bool { return target == ErrToolFailed }

// SourceTool runs the external packaging tool that writes source package
// descriptors.
type SourceTool struct {
	// Command is the tool and any leading arguments, e.g.
	// []string{"dpkg-source"}.
	Command          []string
	WorkingDirectory string
	// Stdout and Stderr receive the tool's output streams. When nil the
	// stream is captured and logged at debug level instead.
	Stdout io.Writer
	Stderr io.Writer
	// IgnoreError makes Run report success whatever the tool's exit
	// status.
	IgnoreError bool
}

// ParseCommand splits a configured tool command line into its arguments
// using shell quoting rules.
func ParseCommand(cmd string) ([]string, error) {
	args, err := shlex.Split(cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing command '%s'", cmd)
	}
	if len(args) == 0 {
		return nil, errors.New("command cannot be blank")
	}

	return args, nil
}

// Run invokes the tool with args appended to Command and waits for it to
// exit.
func (t *SourceTool) Run(ctx context.Context, args ...string) error {
	if len(t.Command) == 0 {
		return errors.New("packaging tool command cannot be blank")
	}

	cmdArgs := make([]string, 0, len(t.Command)+len(args))
	cmdArgs = append(cmdArgs, t.Command...)
	cmdArgs = append(cmdArgs, args...)

	captured := &util.CappedWriter{MaxBytes: maxCapturedOutput}
	stdout, stderr := t.Stdout, t.Stderr
	if stdout == nil {
		stdout = captured
	}
	if stderr == nil {
		stderr = captured
	}

	grip.Debug(message.Fields{
		"message":   "running packaging tool",
		"args":      cmdArgs,
		"directory": t.WorkingDirectory,
	})

	err := jasper.NewCommand().
		Add(cmdArgs).
		Directory(t.WorkingDirectory).
		SetOutputWriter(nopWriteCloser{stdout}).
		SetErrorWriter(nopWriteCloser{stderr}).
		Run(ctx)

	output := captured.String()
	grip.DebugWhen(output != "", message.Fields{
		"message": "packaging tool output",
		"args":    cmdArgs,
		"output":  output,
		"capped":  captured.IsTruncated(),
	})

	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "running '%s'", strings.Join(cmdArgs, " "))
	}

	toolErr := &ToolError{
		Args:             cmdArgs,
		WorkingDirectory: t.WorkingDirectory,
		Output:           output,
		Err:              err,
	}
	if t.IgnoreError {
		grip.Warning(message.WrapError(toolErr, message.Fields{
			"message": "ignoring packaging tool failure",
		}))
		return nil
	}

	return toolErr
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
