package analyzer

import (
	"strings"
	"unicode"

	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
)

const fallbackSummaryLimit = 500

// fallbackInsight is appended when the model output carries none of the
// expected section headers, so the parser never returns a fully empty
// result for non-empty input.
const fallbackInsight = "Análise concluída usando processamento de IA"

var (
	summaryHeaders = []string{"SUMMARY:", "RESUMO:"}
	missingHeaders = []string{"MISSING_TOPICS:", "TÓPICOS_AUSENTES:", "MELHORIAS_SUGERIDAS:"}
	insightHeaders = []string{"INSIGHTS:"}
)

// ParseAnalysisText converts the model's freeform analysis text into
// (summary, missing topics, insights). Section headers are recognized
// in English and Portuguese; list items may be bulleted with - or • or
// appear as bare lines; lines that are entirely uppercase inside list
// sections are treated as stray headers and skipped. When no headers
// are recognized at all, the first 500 characters become the summary
// and a single default insight is appended.
func ParseAnalysisText(text string, logger *utils.Logger) (string, []string, []string) {
	var summary string
	missingTopics := []string{}
	insights := []string{}

	section := ""
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)

		if header := matchHeader(upper, summaryHeaders); header != "" {
			section = "summary"
			if rest := strings.TrimSpace(line[len(header):]); rest != "" {
				summary = rest
			}
			continue
		}
		if matchHeader(upper, missingHeaders) != "" {
			section = "missing_topics"
			continue
		}
		if matchHeader(upper, insightHeaders) != "" {
			section = "insights"
			continue
		}

		switch section {
		case "summary":
			if summary != "" {
				summary += " " + line
			} else {
				summary = line
			}
		case "missing_topics":
			if item, ok := listItem(line); ok {
				missingTopics = append(missingTopics, item)
			}
		case "insights":
			if item, ok := listItem(line); ok {
				insights = append(insights, item)
			}
		}
	}

	if summary == "" && len(missingTopics) == 0 && len(insights) == 0 {
		if logger != nil {
			logger.Warn("No structured sections found in analysis text, falling back to raw summary")
		}
		summary = truncateRunes(text, fallbackSummaryLimit)
		insights = append(insights, fallbackInsight)
	}

	return strings.TrimSpace(summary), missingTopics, insights
}

func matchHeader(upperLine string, headers []string) string {
	for _, h := range headers {
		if strings.HasPrefix(upperLine, h) {
			return h
		}
	}
	return ""
}

func listItem(line string) (string, bool) {
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
		item := strings.TrimSpace(strings.TrimLeft(line, "-•"))
		return item, item != ""
	}
	if isAllUpper(line) {
		// A bare uppercase line inside a list section is a stray header
		return "", false
	}
	return line, true
}

func isAllUpper(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
