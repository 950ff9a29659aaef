// Package archive turns host files into the tar stream injected into a
// container filesystem.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Expand resolves inputs into a flat list of regular files. Directories
// are walked recursively and linked directories are followed, each real
// directory at most once. Inputs and entries that are neither regular
// files nor directories, dangling links included, are returned in
// missing. The order of inputs is preserved; directory contents follow
// lexical walk order.
func Expand(inputs []string) (files []string, missing []string, err error) {
	for _, in := range inputs {
		info, statErr := os.Stat(in)
		switch {
		case statErr != nil:
			missing = append(missing, in)
		case info.Mode().IsRegular():
			files = append(files, in)
		case info.IsDir():
			if err := walk(in, map[string]bool{}, &files, &missing); err != nil {
				return nil, nil, fmt.Errorf("walk %s: %w", in, err)
			}
		default:
			missing = append(missing, in)
		}
	}
	return files, missing, nil
}

// walk appends the regular files under dir. seen holds the real paths of
// directories already walked and breaks link cycles.
func walk(dir string, seen map[string]bool, files, missing *[]string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			real, err := filepath.EvalSymlinks(path)
			if err != nil {
				return err
			}
			if seen[real] {
				return fs.SkipDir
			}
			seen[real] = true
		case d.Type().IsRegular():
			*files = append(*files, path)
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Stat(path)
			switch {
			case err != nil:
				*missing = append(*missing, path)
			case target.Mode().IsRegular():
				*files = append(*files, path)
			case target.IsDir():
				// WalkDir does not descend through a link, so walk its target.
				real, err := filepath.EvalSymlinks(path)
				if err != nil {
					return err
				}
				return walk(real, seen, files, missing)
			default:
				*missing = append(*missing, path)
			}
		default:
			*missing = append(*missing, path)
		}
		return nil
	})
}

// EntryName is the in-archive name of path. Directory structure is
// flattened, so two files with the same base name collide.
func EntryName(path string) string {
	return filepath.Base(path)
}

// Write streams one tar entry per file to w. added is called after each
// entry, when non-nil. A file that cannot be archived is reported as a
// *BuildError naming it.
func Write(w io.Writer, files []string, added func(path, name string)) error {
	tw := tar.NewWriter(w)
	for _, path := range files {
		if err := writeFile(tw, path); err != nil {
			return &BuildError{Path: path, Err: err}
		}
		if added != nil {
			added(path, EntryName(path))
		}
	}
	return tw.Close()
}

func writeFile(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = EntryName(path)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return nil
}
