package site

import (
	stdErrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

// AssetsDir is the output subdirectory receiving the theme assets.
const AssetsDir = "assets"

// CopyAssets mirrors src into <outputDir>/assets, skipping hidden files and
// directories. A missing src copies nothing. It returns the number of files copied.
func CopyAssets(src, outputDir string) (int, error) {
	if _, err := os.Stat(src); stdErrors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	dst := filepath.Join(outputDir, AssetsDir)
	copied := 0
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		hidden := strings.HasPrefix(d.Name(), ".") && path != src
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(dst, rel)); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, errors.WrapError(err, errors.CategoryFileSystem, "copy assets").
			WithContext("src", src).
			WithContext("dst", dst).
			Build()
	}
	return copied, nil
}

// copyFile copies a single file, preserving its permissions.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	srcFile, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
