package readme

import (
	"fmt"
	"os"
	"path/filepath"
)

// UpdateFile rewrites the section of tag in the file at path and reports whether
// the file changed. The new content goes to a temporary file in the same
// directory that then replaces the original, keeping its permissions. Nothing is
// written when the section is missing or the content is already current.
func UpdateFile(path, tag string, lines []string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	content := string(data)
	updated, err := ReplaceSection(content, tag, lines)
	if err != nil {
		return false, fmt.Errorf("%w in %s", err, path)
	}
	if updated == content {
		return false, nil
	}

	if err := writeFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
