package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Output names understood by OpenOutput. Anything else is a file path.
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
	filePrefix   = "file://"
)

// OpenOutput resolves one output name:
//   - "stdout" or "" writes to os.Stdout
//   - "stderr" writes to os.Stderr
//   - "file:///path/to/file" or a plain path appends to the file, creating
//     missing parent directories
func OpenOutput(output string) (io.Writer, error) {
	switch {
	case output == "" || output == OutputStdout:
		return os.Stdout, nil
	case output == OutputStderr:
		return os.Stderr, nil
	case strings.HasPrefix(output, filePrefix):
		return openFile(strings.TrimPrefix(output, filePrefix))
	case strings.Contains(output, "://"):
		return nil, fmt.Errorf("unsupported log output: %s", output)
	default:
		return openFile(output)
	}
}

func openFile(path string) (io.Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("empty log file path")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}
