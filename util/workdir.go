package util

import (
	"os"
	"sync"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
)

// Pushd makes dir the process working directory and returns a function that
// restores the previous one. The restore function must be called on every
// exit path; calling it more than once is a no-op.
//
// The working directory belongs to the whole process. Pushd calls may nest,
// provided they are restored in reverse order, but must not be made from
// several goroutines at once.
func Pushd(dir string) (func() error, error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting current working directory")
	}

	if err = os.Chdir(dir); err != nil {
		return nil, errors.Wrapf(err, "changing working directory to '%s'", dir)
	}

	var once sync.Once
	return func() error {
		var restoreErr error
		once.Do(func() {
			restoreErr = errors.Wrapf(os.Chdir(prev), "restoring working directory '%s'", prev)
		})
		return restoreErr
	}, nil
}

// WithWorkingDirectory runs op with dir as the process working directory,
// restoring the previous directory afterwards whether or not op succeeds.
// An error from op takes precedence over an error restoring the directory.
func WithWorkingDirectory(dir string, op func() error) (err error) {
	restore, err := Pushd(dir)
	if err != nil {
		return err
	}

	defer func() {
		restoreErr := restore()
		if err == nil {
			err = restoreErr
			return
		}
		grip.Warning(restoreErr)
	}()

	return op()
}
