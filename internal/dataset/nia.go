package dataset

import (
	"bufio"
	"os"
	"strings"

	"niatrend/internal/errors"
)

// NIASet is the set of NIA-designated neighbourhood identifiers.
type NIASet map[string]struct{}

// Contains reports whether the neighbourhood is NIA-designated.
func (s NIASet) Contains(neighbourhood string) bool {
	_, ok := s[neighbourhood]
	return ok
}

// LoadNIASet reads NIA-designated neighbourhood identifiers from a file
// with one identifier per line. Blank lines and lines starting with '#'
// are ignored. Lines containing commas are treated as CSV rows whose
// first field is the identifier; a leading header row naming the
// neighbourhood column is skipped.
func LoadNIASet(path string) (NIASet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open NIA membership file", err).
			WithContext("path", path)
	}
	defer file.Close()

	set := make(NIASet)
	scanner := bufio.NewScanner(file)
	first := true

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			first = false
			continue
		}

		id := line
		if i := strings.Index(line, ","); i >= 0 {
			id = strings.TrimSpace(line[:i])
		}
		id = strings.Trim(id, `"`)

		if first && strings.EqualFold(id, "NEIGHBOURHOOD") {
			first = false
			continue
		}
		first = false

		if id != "" {
			set[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewParsingError("failed to read NIA membership file", err).
			WithContext("path", path)
	}

	if len(set) == 0 {
		return nil, errors.NewValidationError("NIA membership file contains no neighbourhood identifiers").
			WithContext("path", path)
	}

	return set, nil
}
