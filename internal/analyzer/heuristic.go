package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/document-analysis-api/internal/models"
	"github.com/BerylCAtieno/document-analysis-api/internal/utils"
)

const maxHeuristicItems = 5

// HeuristicAnalyzer produces an analysis from document metadata alone,
// with no external calls. It classifies the document by name keywords
// and emits a type-specific summary, a checklist of commonly missing
// elements, and metadata-driven insights. Used when no AI backend is
// configured.
type HeuristicAnalyzer struct {
	logger *utils.Logger
}

func NewHeuristicAnalyzer(logger *utils.Logger) *HeuristicAnalyzer {
	return &HeuristicAnalyzer{logger: logger}
}

func (a *HeuristicAnalyzer) Analyze(ctx context.Context, doc *models.Document) (*models.DocumentAnalysis, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	docType := classify(doc.Name)
	content := strings.ToLower(strings.Join([]string{doc.Name, doc.Status, doc.CreatedBy}, " "))

	a.logger.Info("Running heuristic analysis", "document_id", doc.ID, "document_type", docType)

	now := time.Now().UTC()
	return &models.DocumentAnalysis{
		DocumentID:    doc.ID,
		Summary:       heuristicSummary(doc, docType),
		MissingTopics: heuristicMissingElements(docType, content),
		Insights:      heuristicInsights(doc, docType),
		AnalyzedAt:    &now,
	}, nil
}

func classify(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "contract") || strings.Contains(lower, "agreement"):
		return "contract"
	case strings.Contains(lower, "proposal") || strings.Contains(lower, "quote") || strings.Contains(lower, "bid"):
		return "proposal"
	case strings.Contains(lower, "legal") || strings.Contains(lower, "terms") || strings.Contains(lower, "policy"):
		return "legal"
	default:
		return "general"
	}
}

func heuristicSummary(doc *models.Document, docType string) string {
	switch docType {
	case "contract":
		return fmt.Sprintf(
			"Contract document '%s' (status: %s) created by %s. Contains contractual terms and obligations between parties.",
			doc.Name, doc.Status, doc.CreatedBy)
	case "proposal":
		return fmt.Sprintf(
			"Proposal document '%s' (status: %s) created by %s. Outlines proposed work, deliverables and commercial terms.",
			doc.Name, doc.Status, doc.CreatedBy)
	case "legal":
		return fmt.Sprintf(
			"Legal document '%s' (status: %s) created by %s. Defines legal terms, conditions or policies.",
			doc.Name, doc.Status, doc.CreatedBy)
	default:
		return fmt.Sprintf(
			"Document '%s' (status: %s) created by %s. General business document under review.",
			doc.Name, doc.Status, doc.CreatedBy)
	}
}

// missingElementCatalog lists the elements commonly absent per document
// type. An element is only reported when none of its keywords appear in
// the available metadata.
var missingElementCatalog = map[string][]catalogEntry{
	"contract": {
		{element: "Payment terms and conditions", keywords: []string{"payment", "pay"}},
		{element: "Termination clauses", keywords: []string{"termination", "terminate"}},
		{element: "Liability limitations", keywords: []string{"liability"}},
		{element: "Dispute resolution procedures", keywords: []string{"dispute"}},
		{element: "Force majeure provisions", keywords: []string{"force majeure"}},
	},
	"proposal": {
		{element: "Detailed timeline", keywords: []string{"timeline", "schedule"}},
		{element: "Cost breakdown", keywords: []string{"cost", "price", "budget"}},
		{element: "Risk assessment", keywords: []string{"risk"}},
		{element: "Success metrics", keywords: []string{"metric", "kpi"}},
		{element: "Acceptance criteria", keywords: []string{"acceptance"}},
	},
	"legal": {
		{element: "Governing law", keywords: []string{"governing law"}},
		{element: "Jurisdiction clauses", keywords: []string{"jurisdiction"}},
		{element: "Amendment procedures", keywords: []string{"amendment"}},
		{element: "Notice requirements", keywords: []string{"notice"}},
		{element: "Signature blocks", keywords: []string{"signature"}},
	},
}

type catalogEntry struct {
	element  string
	keywords []string
}

func heuristicMissingElements(docType, content string) []string {
	catalog, ok := missingElementCatalog[docType]
	if !ok {
		return []string{
			"Review for completeness",
			"Verify all required sections",
		}
	}

	missing := []string{}
	for _, entry := range catalog {
		if len(missing) >= maxHeuristicItems {
			break
		}
		found := false
		for _, kw := range entry.keywords {
			if strings.Contains(content, kw) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, entry.element)
		}
	}
	return missing
}

func heuristicInsights(doc *models.Document, docType string) []string {
	insights := []string{}

	status := strings.ToLower(doc.Status)
	if status == "" || status == "draft" {
		insights = append(insights, "Document is still in draft stage and may be incomplete")
	}
	if status == "pending" {
		insights = append(insights, "Document is awaiting review or approval")
	}

	switch docType {
	case "contract":
		insights = append(insights,
			"Ensure both parties have reviewed all contractual obligations",
			"Verify that key dates and deadlines are clearly stated",
			"Confirm signatory authority for all parties",
		)
	case "proposal":
		insights = append(insights,
			"Validate that the scope of work matches client expectations",
			"Check that pricing aligns with the described deliverables",
			"Confirm the proposal validity period is stated",
		)
	case "legal":
		insights = append(insights,
			"Have legal counsel review the document before publication",
			"Verify compliance with applicable regulations",
			"Check for consistency with related policies",
		)
	default:
		insights = append(insights,
			"Consider adding a clear purpose statement",
			"Verify the intended audience is addressed",
			"Check document versioning and ownership",
		)
	}

	insights = append(insights,
		"Keep the document updated as circumstances change",
		"Store the final version in the document repository",
	)

	if len(insights) > maxHeuristicItems {
		insights = insights[:maxHeuristicItems]
	}
	return insights
}
