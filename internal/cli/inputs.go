package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// StdinArg selects standard input as a URL list
const StdinArg = "-"

// ReadURLLists concatenates every URL list named by args. Each arg is a
// file, a doublestar glob such as lists/**/*.txt, or StdinArg.
func ReadURLLists(args []string, stdin io.Reader) (string, error) {
	var parts []string
	readStdin := false

	for _, arg := range args {
		if arg == StdinArg {
			if readStdin {
				continue
			}
			readStdin = true
			data, err := io.ReadAll(stdin)
			if err != nil {
				return "", fmt.Errorf("failed to read stdin: %w", err)
			}
			parts = append(parts, string(data))
			continue
		}

		files, err := findListFiles(arg)
		if err != nil {
			return "", err
		}
		for _, name := range files {
			data, err := os.ReadFile(name)
			if err != nil {
				return "", fmt.Errorf("failed to read %s: %w", name, err)
			}
			parts = append(parts, string(data))
		}
	}

	return strings.Join(parts, "\n"), nil
}

// findListFiles returns the regular files matching pattern
func findListFiles(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var files []string
	for _, name := range matches {
		info, err := os.Stat(name)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			files = append(files, name)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}
	return files, nil
}
