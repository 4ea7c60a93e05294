package game

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// separatorRe matches a line of 3+ dashes, used to group faces in a file.
var separatorRe = regexp.MustCompile(`^-{3,}[ \t]*$`)

// LoadFaces loads card faces from a list of paths (files or directories).
// Each non-empty line is one face; lines starting with '#' and dash
// separators are skipped. Value v is drawn with faces[v-1].
func LoadFaces(paths []string) ([]string, error) {
	var faces []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
			}
			for _, entry := range files {
				if entry.IsDir() {
					continue
				}
				f, err := loadFile(filepath.Join(path, entry.Name()))
				if err != nil {
					return nil, err
				}
				faces = append(faces, f...)
			}
		} else {
			f, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			faces = append(faces, f...)
		}
	}

	return faces, nil
}

func loadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var faces []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || separatorRe.MatchString(line) {
			continue
		}
		faces = append(faces, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan file %s: %w", path, err)
	}

	return faces, nil
}

// FaceFor returns the label for a card value, falling back to the number
// when no face was loaded for it.
func FaceFor(faces []string, value int) string {
	if value >= 1 && value <= len(faces) {
		return faces[value-1]
	}
	return fmt.Sprint(value)
}
