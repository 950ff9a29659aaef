package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Builder writes archives to a temporary file so they never have to be
// held in memory.
type Builder struct {
	// Dir holds temporary archives; empty means os.TempDir.
	Dir string
	// Added, when set, is called for every entry written.
	Added func(path, name string)
	// Removed, when set, is called once the temporary archive is deleted.
	Removed func(path string)
}

// With builds the archive for files into a temporary file and hands it to
// use. The temporary file is deleted before With returns, whether build or
// use failed or not. Build failures are returned as *BuildError so callers
// can tell them from failures inside use.
func (b Builder) With(files []string, use func(r io.Reader) error) (err error) {
	f, err := os.CreateTemp(b.Dir, "cpatch-*.tar")
	if err != nil {
		return &BuildError{Path: b.dir(), Err: err}
	}
	name := f.Name()
	defer func() {
		f.Close()
		if rmErr := os.Remove(name); rmErr != nil && !os.IsNotExist(rmErr) {
			if err == nil {
				err = &BuildError{Path: name, Err: fmt.Errorf("remove temporary archive: %w", rmErr)}
			}
			return
		}
		if b.Removed != nil {
			b.Removed(name)
		}
	}()

	if err := Write(f, files, b.Added); err != nil {
		var be *BuildError
		if errors.As(err, &be) {
			return be
		}
		return &BuildError{Path: name, Err: err}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return &BuildError{Path: name, Err: err}
	}
	return use(f)
}

func (b Builder) dir() string {
	if b.Dir == "" {
		return os.TempDir()
	}
	return b.Dir
}

// BuildError reports a failure creating, writing or removing the archive.
type BuildError struct {
	// Path is the input file, temporary directory or archive that failed.
	Path string
	Err  error
}

func (e *BuildError) Error() string { return "build archive: " + e.Err.Error() }

func (e *BuildError) Unwrap() error { return e.Err }
