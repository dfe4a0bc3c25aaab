package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const (
	MaxDealDocumentBytes = 8 << 20
	maxDealTextBytes     = 200_000

	AnalysisSourceAI       = "ai"
	AnalysisSourceFallback = "fallback"
)

var allowedDocumentTypes = map[string]struct{}{
	"image/png":       {},
	"image/jpeg":      {},
	"image/webp":      {},
	"application/pdf": {},
}

type DocumentInput struct {
	Text     string
	Data     []byte
	MIMEType string
}

// ExtractedDeal is what a document extractor could read from a contract.
type ExtractedDeal struct {
	BrandName         string
	CompensationCents int64
	Deliverables      []string
	TermMonths        int
	Exclusivity       bool
	RedFlags          []deal.RedFlag
	Summary           string
}

type DocumentExtractor interface {
	Extract(ctx context.Context, input DocumentInput) (ExtractedDeal, error)
}

type DealAnalysis struct {
	Source            string
	BrandName         string
	CompensationCents int64
	Deliverables      []string
	TermMonths        int
	Exclusivity       bool
	RedFlags          []deal.RedFlag
	Summary           string
}

type DealAnalysisService struct {
	extractor DocumentExtractor
	timeout   time.Duration
	logger    *logging.Logger
}

// NewDealAnalysisService accepts a nil extractor; every analysis then uses
// the local detector only.
func NewDealAnalysisService(extractor DocumentExtractor, timeout time.Duration, logger *logging.Logger) *DealAnalysisService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DealAnalysisService{
		extractor: extractor,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *DealAnalysisService) Analyze(ctx context.Context, input DocumentInput) (DealAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DealAnalysisService.Analyze")
	defer span.End()

	input.Text = strings.TrimSpace(input.Text)
	input.MIMEType = normalizeMIMEType(input.MIMEType)
	if err := validateDocumentInput(input); err != nil {
		return DealAnalysis{}, err
	}

	var (
		extracted  ExtractedDeal
		extractErr error
		localFlags []deal.RedFlag
		localComp  int64
		localFound bool
	)

	var wg conc.WaitGroup
	if s.extractor != nil {
		wg.Go(func() {
			llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			extracted, extractErr = s.extractor.Extract(llmCtx, input)
		})
	}
	wg.Go(func() {
		localFlags = deal.DetectRedFlags(input.Text)
		localComp, localFound = deal.ExtractCompensationCents(input.Text)
	})
	wg.Wait()

	if s.extractor == nil || extractErr != nil {
		if extractErr != nil {
			recordSpanError(span, extractErr)
			s.logger.WarnContext(ctx, "deal extractor failed, using local analysis", "error", extractErr)
		}
		return fallbackAnalysis(input, localFlags, localComp, localFound), nil
	}

	comp := extracted.CompensationCents
	if comp <= 0 && localFound {
		comp = localComp
	}
	flags := deal.MergeRedFlags(extracted.RedFlags, localFlags)
	if comp > 0 {
		flags = withoutCode(flags, deal.MissingPaymentTermsCode)
	}
	if extracted.Exclusivity && !hasCode(flags, "exclusivity") {
		flags = deal.MergeRedFlags(flags, []deal.RedFlag{{
			Code:     "exclusivity",
			Severity: deal.SeverityMedium,
			Message:  "Exclusivity clause may block other sponsorships.",
		}})
	}

	return DealAnalysis{
		Source:            AnalysisSourceAI,
		BrandName:         strings.TrimSpace(extracted.BrandName),
		CompensationCents: comp,
		Deliverables:      normalizeList(extracted.Deliverables, func(v string) string { return v }),
		TermMonths:        extracted.TermMonths,
		Exclusivity:       extracted.Exclusivity || hasCode(flags, "exclusivity"),
		RedFlags:          flags,
		Summary:           strings.TrimSpace(extracted.Summary),
	}, nil
}

func fallbackAnalysis(input DocumentInput, flags []deal.RedFlag, comp int64, found bool) DealAnalysis {
	summary := "Automatic document reading is unavailable; flags come from keyword checks."
	if input.Text == "" {
		summary = "Automatic document reading is unavailable and no text was provided; review the document manually."
	}
	if !found {
		comp = 0
	}
	return DealAnalysis{
		Source:            AnalysisSourceFallback,
		CompensationCents: comp,
		Deliverables:      []string{},
		Exclusivity:       hasCode(flags, "exclusivity"),
		RedFlags:          flags,
		Summary:           summary,
	}
}

func validateDocumentInput(input DocumentInput) error {
	if input.Text == "" && len(input.Data) == 0 {
		return fmt.Errorf("%w: provide a document file or text", ErrInvalidInput)
	}
	if len(input.Text) > maxDealTextBytes {
		return fmt.Errorf("%w: text exceeds %d bytes", ErrInvalidInput, maxDealTextBytes)
	}
	if len(input.Data) == 0 {
		return nil
	}
	if len(input.Data) > MaxDealDocumentBytes {
		return fmt.Errorf("%w: document exceeds %d bytes", ErrInvalidInput, MaxDealDocumentBytes)
	}
	if _, ok := allowedDocumentTypes[input.MIMEType]; !ok {
		return fmt.Errorf("%w: unsupported document type %q", ErrInvalidInput, input.MIMEType)
	}
	return nil
}

func normalizeMIMEType(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	if raw == "image/jpg" {
		return "image/jpeg"
	}
	return raw
}

func hasCode(flags []deal.RedFlag, code string) bool {
	for _, f := range flags {
		if f.Code == code {
			return true
		}
	}
	return false
}

func withoutCode(flags []deal.RedFlag, code string) []deal.RedFlag {
	out := make([]deal.RedFlag, 0, len(flags))
	for _, f := range flags {
		if f.Code != code {
			out = append(out, f)
		}
	}
	return out
}
