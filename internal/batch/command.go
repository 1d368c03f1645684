package batch

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/ytget/puller/internal/config"
)

// CommandTemplate builds the downloader command line for one job
type CommandTemplate struct {
	Binary    string
	SortSpec  string
	OutputExt string
}

// NewCommandTemplate creates a template from resolved options
func NewCommandTemplate(opts config.Options) CommandTemplate {
	opts.Normalize()
	return CommandTemplate{
		Binary:    opts.DownloaderBinary,
		SortSpec:  opts.SortSpec,
		OutputExt: opts.OutputExt,
	}
}

// Build returns `<binary> -S <sort> -o "<index>.<ext>" "<url>"`
func (t CommandTemplate) Build(index int, url string) string {
	return fmt.Sprintf(`%s -S %s -o "%s" "%s"`,
		quoteBinary(t.Binary), quoteSortSpec(t.SortSpec), t.OutputName(index), escapeDoubleQuoted(url))
}

// OutputName returns the file name a job with the given index writes
func (t CommandTemplate) OutputName(index int) string {
	return strconv.Itoa(index) + "." + t.OutputExt
}

func quoteBinary(binary string) string {
	if strings.ContainsAny(binary, " \t") {
		return `"` + binary + `"`
	}
	return binary
}

// quoteSortSpec leaves plain sort specs like res,ext:mp4:m4a bare and
// double-quotes anything else
func quoteSortSpec(spec string) string {
	plain := strings.IndexFunc(spec, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case strings.ContainsRune(",:._+-", r):
			return false
		}
		return true
	}) < 0
	if plain && spec != "" {
		return spec
	}
	return `"` + escapeDoubleQuoted(spec) + `"`
}

// escapeDoubleQuoted makes s safe inside a double-quoted shell word.
// cmd.exe has no escape for '"', so it is dropped there.
func escapeDoubleQuoted(s string) string {
	if runtime.GOOS == "windows" {
		return strings.ReplaceAll(s, `"`, "")
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")
	return r.Replace(s)
}

// ParseStartIndex parses the starting counter typed by the user
func ParseStartIndex(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &ValidationError{Input: text, Err: err}
	}
	return n, nil
}

// SplitURLs splits pasted text into trimmed, non-blank lines
func SplitURLs(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}
