package analysis

import (
	"context"

	"github.com/clausewise/core/internal/models"
)

// StandinBackend returns fixed illustrative content for every task. It
// is selected at startup when no provider is configured, so the whole
// pipeline can be exercised end to end without live credentials.
type StandinBackend struct{}

func NewStandinBackend() *StandinBackend { return &StandinBackend{} }

func (*StandinBackend) Summarize(ctx context.Context, ref Reference, lang string) (string, error) {
	return "This is a sample summary. The agreement describes the obligations of both parties, " +
		"the applicable fees and the key dates. Configure a model provider to analyze real documents.", nil
}

func (*StandinBackend) ExtractRisks(ctx context.Context, ref Reference) ([]models.Risk, error) {
	return []models.Risk{
		{
			Clause:      "Automatic renewal",
			Risk:        "High",
			Explanation: "Sample risk: the contract renews automatically unless cancelled in writing 60 days in advance.",
		},
		{
			Clause:      "Late payment fee",
			Risk:        "Medium",
			Explanation: "Sample risk: overdue payments accrue a 5% monthly penalty.",
		},
	}, nil
}

func (*StandinBackend) ExtractGlossary(ctx context.Context, ref Reference, lang string) ([]models.GlossaryEntry, error) {
	return []models.GlossaryEntry{
		{Term: "Indemnification", Definition: "Sample definition: a promise to cover another party's losses."},
		{Term: "Force majeure", Definition: "Sample definition: events outside anyone's control that excuse performance."},
	}, nil
}

func (*StandinBackend) AnswerQuestion(ctx context.Context, ref *Reference, question, lang string) (string, error) {
	return "This is a sample answer. Configure a model provider to get answers about your document.", nil
}

func (*StandinBackend) Chat(ctx context.Context, turns []ChatTurn, ref *Reference) (string, error) {
	return "This is a sample reply. Configure a model provider to chat about your document.", nil
}
