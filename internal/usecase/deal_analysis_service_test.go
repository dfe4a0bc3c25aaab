package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	out ExtractedDeal
	err error
}

func (s stubExtractor) Extract(_ context.Context, _ DocumentInput) (ExtractedDeal, error) {
	return s.out, s.err
}

const riskyContractText = "Brand receives exclusive rights in perpetuity. Athlete will be paid $1,500 for 3 posts."

func TestDealAnalysisService_FallsBackWhenExtractorFails(t *testing.T) {
	svc := NewDealAnalysisService(stubExtractor{err: errors.New("quota exceeded")}, 0, logging.NewNop())

	got, err := svc.Analyze(t.Context(), DocumentInput{Text: riskyContractText})
	require.NoError(t, err)
	require.Equal(t, AnalysisSourceFallback, got.Source)
	require.Equal(t, int64(150_000), got.CompensationCents)
	require.True(t, got.Exclusivity)
	require.True(t, hasCode(got.RedFlags, "perpetual_rights"))
	require.False(t, hasCode(got.RedFlags, deal.MissingPaymentTermsCode))
}

func TestDealAnalysisService_WithoutExtractorUsesLocalRules(t *testing.T) {
	svc := NewDealAnalysisService(nil, 0, logging.NewNop())

	got, err := svc.Analyze(t.Context(), DocumentInput{Text: "Post twice a week. Renews automatically."})
	require.NoError(t, err)
	require.Equal(t, AnalysisSourceFallback, got.Source)
	require.True(t, hasCode(got.RedFlags, "auto_renewal"))
	require.True(t, hasCode(got.RedFlags, deal.MissingPaymentTermsCode))
}

func TestDealAnalysisService_MergesExtractorFlags(t *testing.T) {
	svc := NewDealAnalysisService(stubExtractor{out: ExtractedDeal{
		BrandName:         " Lone Star Energy ",
		CompensationCents: 200_000,
		Deliverables:      []string{"3 posts", "3 posts", "1 reel"},
		TermMonths:        12,
		RedFlags: []deal.RedFlag{
			{Code: "perpetual_rights", Severity: deal.SeverityMedium, Message: "rights never end"},
			{Code: "morality_clause", Severity: deal.SeverityLow, Message: "broad morality clause"},
		},
		Summary: "Twelve month social deal.",
	}}, 0, logging.NewNop())

	got, err := svc.Analyze(t.Context(), DocumentInput{Text: riskyContractText})
	require.NoError(t, err)
	require.Equal(t, AnalysisSourceAI, got.Source)
	require.Equal(t, "Lone Star Energy", got.BrandName)
	require.Equal(t, int64(200_000), got.CompensationCents)
	require.Equal(t, []string{"3 posts", "1 reel"}, got.Deliverables)
	require.True(t, got.Exclusivity)
	require.True(t, hasCode(got.RedFlags, "morality_clause"))

	for _, f := range got.RedFlags {
		if f.Code == "perpetual_rights" {
			require.Equal(t, deal.SeverityHigh, f.Severity)
		}
	}
}

func TestDealAnalysisService_RejectsBadInput(t *testing.T) {
	svc := NewDealAnalysisService(nil, 0, logging.NewNop())

	_, err := svc.Analyze(t.Context(), DocumentInput{})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Analyze(t.Context(), DocumentInput{Data: []byte("GIF89a"), MIMEType: "image/gif"})
	require.ErrorIs(t, err, ErrInvalidInput)

	got, err := svc.Analyze(t.Context(), DocumentInput{Data: []byte("%PDF-1.7"), MIMEType: "application/pdf; charset=binary"})
	require.NoError(t, err)
	require.Equal(t, AnalysisSourceFallback, got.Source)
	require.Empty(t, got.RedFlags)
}
