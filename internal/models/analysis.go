package models

import (
	"strings"
	"time"
)

// DocumentAnalysis is the structured result of analyzing a single document.
// By convention at most one current analysis exists per document; the
// analysis service enforces this when a re-analysis is forced.
type DocumentAnalysis struct {
	ID            int64      `json:"id" db:"id"`
	DocumentID    int64      `json:"document_id" db:"document_id"`
	Summary       string     `json:"summary" db:"summary"`
	MissingTopics []string   `json:"missing_topics"`
	Insights      []string   `json:"insights"`
	AnalyzedAt    *time.Time `json:"analyzed_at,omitempty" db:"analyzed_at"`
}

// AddMissingTopic appends a trimmed, non-empty, not-yet-present topic.
func (a *DocumentAnalysis) AddMissingTopic(topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return
	}
	for _, t := range a.MissingTopics {
		if t == topic {
			return
		}
	}
	a.MissingTopics = append(a.MissingTopics, topic)
}

// AddInsight appends a trimmed, non-empty, not-yet-present insight.
func (a *DocumentAnalysis) AddInsight(insight string) {
	insight = strings.TrimSpace(insight)
	if insight == "" {
		return
	}
	for _, i := range a.Insights {
		if i == insight {
			return
		}
	}
	a.Insights = append(a.Insights, insight)
}

// HasMeaningfulAnalysis reports whether the analysis carries any content
// worth persisting.
func (a *DocumentAnalysis) HasMeaningfulAnalysis() bool {
	return strings.TrimSpace(a.Summary) != "" ||
		len(a.MissingTopics) > 0 ||
		len(a.Insights) > 0
}

// IsComplete reports whether all required fields are populated.
func (a *DocumentAnalysis) IsComplete() bool {
	return strings.TrimSpace(a.Summary) != "" &&
		a.AnalyzedAt != nil &&
		a.DocumentID > 0
}
