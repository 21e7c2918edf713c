package subprocess

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	if runtime.GOOS == "windows" {
		t.Skip("packaging tool scripts require a POSIX shell")
	}

	fn := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(fn, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return fn
}

func TestParseCommand(t *testing.T) {
	args, err := ParseCommand("dpkg-source")
	require.NoError(t, err)
	assert.Equal(t, []string{"dpkg-source"}, args)

	args, err = ParseCommand(`dpkg-source --diff-ignore='\.git' -Zxz`)
	require.NoError(t, err)
	assert.Equal(t, []string{"dpkg-source", `--diff-ignore=\.git`, "-Zxz"}, args)

	_, err = ParseCommand("   ")
	assert.Error(t, err)
}

func TestSourceToolRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("Success", func(t *testing.T) {
		dir := t.TempDir()
		tool := &SourceTool{
			Command:          []string{writeScript(t, `echo "$@" > args`)},
			WorkingDirectory: dir,
		}

		require.NoError(t, tool.Run(ctx, "-b", "/src/foo"))

		contents, err := os.ReadFile(filepath.Join(dir, "args"))
		require.NoError(t, err)
		assert.Equal(t, "-b /src/foo\n", string(contents))
	})
	t.Run("LeadingArguments", func(t *testing.T) {
		dir := t.TempDir()
		tool := &SourceTool{
			Command:          []string{writeScript(t, `echo "$@" > args`), "-Zxz"},
			WorkingDirectory: dir,
		}

		require.NoError(t, tool.Run(ctx, "-b", "pkg"))

		contents, err := os.ReadFile(filepath.Join(dir, "args"))
		require.NoError(t, err)
		assert.Equal(t, "-Zxz -b pkg\n", string(contents))
	})
	t.Run("RedirectedOutput", func(t *testing.T) {
		stdout := &strings.Builder{}
		stderr := &strings.Builder{}
		tool := &SourceTool{
			Command:          []string{writeScript(t, "echo out; echo err 1>&2")},
			WorkingDirectory: t.TempDir(),
			Stdout:           stdout,
			Stderr:           stderr,
		}

		require.NoError(t, tool.Run(ctx))
		assert.Equal(t, "out\n", stdout.String())
		assert.Equal(t, "err\n", stderr.String())
	})
	t.Run("Failure", func(t *testing.T) {
		tool := &SourceTool{
			Command:          []string{writeScript(t, "echo 'dpkg-source: error: no orig' 1>&2; exit 2")},
			WorkingDirectory: t.TempDir(),
		}

		err := tool.Run(ctx, "-b", "pkg")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrToolFailed))

		var toolErr *ToolError
		require.True(t, errors.As(err, &toolErr))
		assert.Equal(t, tool.WorkingDirectory, toolErr.WorkingDirectory)
		assert.Equal(t, []string{tool.Command[0], "-b", "pkg"}, toolErr.Args)
		assert.Contains(t, toolErr.Output, "dpkg-source: error: no orig")
	})
	t.Run("IgnoredFailure", func(t *testing.T) {
		tool := &SourceTool{
			Command:          []string{writeScript(t, "exit 2")},
			WorkingDirectory: t.TempDir(),
			IgnoreError:      true,
		}

		assert.NoError(t, tool.Run(ctx))
	})
	t.Run("BlankCommand", func(t *testing.T) {
		tool := &SourceTool{WorkingDirectory: t.TempDir()}
		assert.Error(t, tool.Run(ctx, "-b"))
	})
	t.Run("Canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		tool := &SourceTool{
			Command:          []string{writeScript(t, "sleep 10")},
			WorkingDirectory: t.TempDir(),
		}

		err := tool.Run(canceled)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
