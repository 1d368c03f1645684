package batch

import (
	"context"
	"log/slog"
	"strings"
)

// ExpandText rewrites pasted text so every line is a single video URL.
// Lines the expander cannot resolve are kept as they are.
func ExpandText(ctx context.Context, expander Expander, text string, logger *slog.Logger) string {
	var lines []string
	for _, url := range SplitURLs(text) {
		urls, err := expander.Expand(ctx, url)
		if err != nil {
			logger.Warn("failed to expand URL, keeping it as is", "url", url, "error", err)
			lines = append(lines, url)
			continue
		}
		lines = append(lines, urls...)
	}
	return strings.Join(lines, "\n")
}
