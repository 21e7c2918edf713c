package packages

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/irgsh/srcbuild"
	"github.com/irgsh/srcbuild/archive"
	"github.com/irgsh/srcbuild/subprocess"
	"github.com/irgsh/srcbuild/util"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// AssembleOptions control how a descriptor is produced.
type AssembleOptions struct {
	// Tool is the packaging tool command, defaulting to dpkg-source.
	Tool []string
	// ScratchRoot is the directory in which the scratch directory holding
	// the descriptor is created. Defaults to the system temporary
	// directory.
	ScratchRoot string
	// Stdout and Stderr receive the packaging tool's output. By default it
	// is captured and logged at debug level.
	Stdout io.Writer
	Stderr io.Writer
	// IgnoreToolErrors returns the descriptor path even when the tool
	// exits unsuccessfully.
	IgnoreToolErrors bool
}

func (o *AssembleOptions) validateAndDefault() error {
	if len(o.Tool) == 0 {
		o.Tool = []string{srcbuild.DefaultSourceTool}
	}
	if o.ScratchRoot == "" {
		o.ScratchRoot = os.TempDir()
	}

	// the tool runs from the scratch directory, so a relative tool path
	// is resolved now
	if tool := o.Tool[0]; !filepath.IsAbs(tool) && strings.ContainsAny(tool, "/"+string(filepath.Separator)) {
		abs, err := filepath.Abs(tool)
		if err != nil {
			return errors.Wrapf(err, "resolving packaging tool '%s'", tool)
		}
		o.Tool = append([]string{abs}, o.Tool[1:]...)
	}

	if _, err := os.Stat(o.ScratchRoot); err != nil {
		return errors.Wrapf(err, "checking scratch root '%s'", o.ScratchRoot)
	}

	return nil
}

// assemblyJob holds everything a procedure needs to build one descriptor.
type assemblyJob struct {
	name            string
	upstreamVersion string
	packageVersion  string
	// directory is the absolute path of the package working tree.
	directory string
	scratch   string
	opts      AssembleOptions
}

func (j *assemblyJob) descriptor() string {
	return filepath.Join(j.scratch, fmt.Sprintf("%s_%s%s", j.name, j.upstreamVersion, srcbuild.DescriptorExtension))
}

func (j *assemblyJob) tool() *subprocess.SourceTool {
	return &subprocess.SourceTool{
		Command:          j.opts.Tool,
		WorkingDirectory: j.scratch,
		Stdout:           j.opts.Stdout,
		Stderr:           j.opts.Stderr,
		IgnoreError:      j.opts.IgnoreToolErrors,
	}
}

// assembler is one of the two procedures producing a descriptor from a
// package working tree.
type assembler interface {
	name() string
	assemble(ctx context.Context, job *assemblyJob) (string, error)
}

func (p *SourcePackage) assembler() (assembler, error) {
	if p.IsNative() {
		return nativeAssembly{}, nil
	}

	orig, err := filepath.Abs(p.Orig)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving orig archive path '%s'", p.Orig)
	}
	return archiveAssembly{orig: orig}, nil
}

// Assemble builds the package's source descriptor in a fresh scratch
// directory and returns the descriptor's path, which is named
// "<name>_<upstream version>.dsc". The scratch directory belongs to the
// caller, who should remove it once the descriptor has been consumed; it is
// left behind on failure too, for inspection.
//
// Assemble changes the process working directory while the packaging tool
// runs and restores it before returning.
func (p *SourcePackage) Assemble(ctx context.Context, opts AssembleOptions) (string, error) {
	if err := opts.validateAndDefault(); err != nil {
		return "", errors.Wrap(err, "invalid assembly options")
	}

	md, err := p.Metadata()
	if err != nil {
		return "", errors.Wrap(err, "resolving package metadata")
	}

	directory, err := filepath.Abs(p.Directory)
	if err != nil {
		return "", errors.Wrapf(err, "resolving package directory '%s'", p.Directory)
	}

	proc, err := p.assembler()
	if err != nil {
		return "", errors.WithStack(err)
	}

	scratch, err := os.MkdirTemp(opts.ScratchRoot, "*"+srcbuild.ScratchDirectorySuffix)
	if err != nil {
		return "", errors.Wrap(err, "creating scratch directory")
	}
	if scratch, err = filepath.Abs(scratch); err != nil {
		return "", errors.Wrapf(err, "resolving scratch directory '%s'", scratch)
	}

	job := &assemblyJob{
		name:            md.Name,
		upstreamVersion: UpstreamVersion(md.Version),
		packageVersion:  PackageVersion(md.Name, md.Version),
		directory:       directory,
		scratch:         scratch,
		opts:            opts,
	}

	grip.Info(message.Fields{
		"message":         "assembling source package",
		"procedure":       proc.name(),
		"package_version": job.packageVersion,
		"directory":       job.directory,
		"scratch":         job.scratch,
	})

	descriptor, err := proc.assemble(ctx, job)
	if err != nil {
		return "", errors.Wrapf(err, "assembling %s (%s) in '%s'", job.packageVersion, proc.name(), job.scratch)
	}

	grip.Info(message.Fields{
		"message":         "assembled source package",
		"package_version": job.packageVersion,
		"descriptor":      descriptor,
	})

	return descriptor, nil
}

// nativeAssembly builds a package that has no orig archive directly from
// its working tree.
type nativeAssembly struct{}

func (nativeAssembly) name() string { return "native" }

func (nativeAssembly) assemble(ctx context.Context, job *assemblyJob) (string, error) {
	err := util.WithWorkingDirectory(job.scratch, func() error {
		return job.tool().Run(ctx, "-b", job.directory)
	})
	if err != nil {
		return "", err
	}

	return job.descriptor(), nil
}

// archiveAssembly builds a package from its orig archive: the archive is
// unpacked next to a copy of the working tree and the tool diffs the two.
type archiveAssembly struct {
	orig string
}

func (archiveAssembly) name() string { return "orig archive" }

func (a archiveAssembly) assemble(ctx context.Context, job *assemblyJob) (string, error) {
	first, err := archive.FirstEntry(a.orig)
	if err != nil {
		return "", errors.WithStack(err)
	}

	if !first.IsDir || !strings.HasPrefix(job.packageVersion, first.Name) {
		return "", errors.WithStack(&ArchiveMismatchError{
			Archive:        a.orig,
			Entry:          first.Name,
			EntryIsDir:     first.IsDir,
			PackageVersion: job.packageVersion,
		})
	}

	err = util.WithWorkingDirectory(job.scratch, func() error {
		return a.buildFromOrig(ctx, job, first.Name)
	})
	if err != nil {
		return "", err
	}

	return job.descriptor(), nil
}

// buildFromOrig leaves the pristine upstream tree in "<topLevel>.orig" and
// a transient copy of the working tree in "<topLevel>", which is removed
// once the tool has run.
func (a archiveAssembly) buildFromOrig(ctx context.Context, job *assemblyJob, topLevel string) (err error) {
	if err = archive.Extract(a.orig, job.scratch); err != nil {
		return err
	}

	workingCopy := filepath.Join(job.scratch, topLevel)
	pristine := workingCopy + srcbuild.OrigSuffix
	if err = os.Rename(workingCopy, pristine); err != nil {
		return errors.Wrapf(err, "moving extracted sources to '%s'", pristine)
	}

	defer func() {
		removeErr := errors.Wrapf(os.RemoveAll(workingCopy), "removing working copy '%s'", workingCopy)
		if err == nil {
			err = removeErr
			return
		}
		grip.Warning(removeErr)
	}()

	if err = util.CopyTree(job.directory, workingCopy); err != nil {
		return errors.Wrap(err, "copying package directory")
	}

	return job.tool().Run(ctx, "-b", "-sr", workingCopy)
}
