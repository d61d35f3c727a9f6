package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddMissingTopicDeduplicates(t *testing.T) {
	a := &DocumentAnalysis{}

	a.AddMissingTopic("  Prazos  ")
	a.AddMissingTopic("Prazos")
	a.AddMissingTopic("")
	a.AddMissingTopic("Multas")

	assert.Equal(t, []string{"Prazos", "Multas"}, a.MissingTopics)
}

func TestAddInsightDeduplicates(t *testing.T) {
	a := &DocumentAnalysis{}

	a.AddInsight("Bem estruturado")
	a.AddInsight(" Bem estruturado ")
	a.AddInsight("   ")

	assert.Equal(t, []string{"Bem estruturado"}, a.Insights)
}

func TestHasMeaningfulAnalysis(t *testing.T) {
	assert.False(t, (&DocumentAnalysis{Summary: "   "}).HasMeaningfulAnalysis())
	assert.True(t, (&DocumentAnalysis{Summary: "Resumo"}).HasMeaningfulAnalysis())
	assert.True(t, (&DocumentAnalysis{MissingTopics: []string{"Prazos"}}).HasMeaningfulAnalysis())
	assert.True(t, (&DocumentAnalysis{Insights: []string{"Ponto forte"}}).HasMeaningfulAnalysis())
}

func TestIsComplete(t *testing.T) {
	now := time.Now().UTC()

	assert.True(t, (&DocumentAnalysis{DocumentID: 1, Summary: "Resumo", AnalyzedAt: &now}).IsComplete())
	assert.False(t, (&DocumentAnalysis{DocumentID: 1, Summary: "Resumo"}).IsComplete())
	assert.False(t, (&DocumentAnalysis{DocumentID: 1, AnalyzedAt: &now}).IsComplete())
	assert.False(t, (&DocumentAnalysis{Summary: "Resumo", AnalyzedAt: &now}).IsComplete())
}
