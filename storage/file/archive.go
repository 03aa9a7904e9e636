package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// archiveStamp is the timestamp suffix layout for archived files
const archiveStamp = "20060102150405"

// archive moves the file at path into the archive directory under a
// timestamp-suffixed name. A locked file is copied instead of moved, with
// a warning; archival never fails the surrounding run
func (s *Store) archive(path string) {
	if _, err := os.Stat(path); err != nil {
		return // nothing to archive
	}

	if err := os.MkdirAll(s.archiveDir, 0o755); err != nil {
		s.logger.Error(
			"unable to create archive directory",
			"dir", s.archiveDir,
			"err", err,
		)

		return
	}

	stamped := filepath.Join(
		s.archiveDir,
		filepath.Base(stampedPath(path, s.now())),
	)

	if err := s.move(path, stamped); err != nil {
		// The file may be locked by another process; keep a copy instead
		if copyErr := copyFile(path, stamped); copyErr != nil {
			s.logger.Error(
				"archive failed",
				"path", path,
				"err", copyErr,
			)

			return
		}

		s.logger.Warn(
			"file locked, copied to archive instead",
			"archived", stamped,
		)

		return
	}

	s.logger.Info(
		"archived",
		"path", path,
		"archived", stamped,
	)
}

// stampedPath appends a timestamp suffix to the file's stem:
// <stem>_<YYYYMMDDHHMMSS><ext>
func stampedPath(path string, at time.Time) string {
	var (
		ext  = filepath.Ext(path)
		stem = strings.TrimSuffix(path, ext)
	)

	return fmt.Sprintf("%s_%s%s", stem, at.Format(archiveStamp), ext)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Close()
}
