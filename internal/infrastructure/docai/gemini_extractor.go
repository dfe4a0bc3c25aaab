package docai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

const extractionPrompt = `You review NIL (name, image, likeness) endorsement contracts for high school and college athletes.
Read the attached contract and answer with a single JSON object and nothing else:
{
  "brand_name": string,
  "compensation_usd": number,
  "deliverables": [string],
  "term_months": integer,
  "exclusivity": boolean,
  "red_flags": [{"code": string, "severity": "low"|"medium"|"high", "message": string}],
  "summary": string
}
Use these red flag codes when they apply: perpetual_rights, exclusivity, non_compete, school_marks,
pay_for_play, upfront_fee, auto_renewal, unilateral_termination, missing_payment_terms.
Use 0, false or [] when the contract does not say.`

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiExtractor reads deal terms from contract text or images with a Gemini model.
type GeminiExtractor struct {
	models generator
	model  string
	logger *logging.Logger
}

func NewGeminiExtractor(ctx context.Context, apiKey, model string, logger *logging.Logger) (*GeminiExtractor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("genai api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiExtractor(client.Models, model, logger), nil
}

func newGeminiExtractor(models generator, model string, logger *logging.Logger) *GeminiExtractor {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GeminiExtractor{models: models, model: model, logger: logger}
}

func (e *GeminiExtractor) Extract(ctx context.Context, input usecase.DocumentInput) (usecase.ExtractedDeal, error) {
	parts := []*genai.Part{genai.NewPartFromText(extractionPrompt)}
	if len(input.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(input.Data, input.MIMEType))
	}
	if text := strings.TrimSpace(input.Text); text != "" {
		parts = append(parts, genai.NewPartFromText("Contract text:\n"+text))
	}

	resp, err := e.models.GenerateContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return usecase.ExtractedDeal{}, errors.Wrapf(err, "generate content model=%s", e.model)
	}

	raw := resp.Text()
	out, err := parseExtraction(raw)
	if err != nil {
		e.logger.WarnContext(ctx, "unparseable extraction output", "model", e.model, "bytes", len(raw), "error", err)
		return usecase.ExtractedDeal{}, err
	}
	return out, nil
}

type extractionPayload struct {
	BrandName       string   `json:"brand_name"`
	CompensationUSD float64  `json:"compensation_usd"`
	Deliverables    []string `json:"deliverables"`
	TermMonths      int      `json:"term_months"`
	Exclusivity     bool     `json:"exclusivity"`
	RedFlags        []struct {
		Code     string `json:"code"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
	} `json:"red_flags"`
	Summary string `json:"summary"`
}

func parseExtraction(raw string) (usecase.ExtractedDeal, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return usecase.ExtractedDeal{}, errors.New("empty extraction output")
	}

	var payload extractionPayload
	if err := sonic.UnmarshalString(cleaned, &payload); err != nil {
		return usecase.ExtractedDeal{}, errors.Wrap(err, "decode extraction output")
	}

	out := usecase.ExtractedDeal{
		BrandName:   strings.TrimSpace(payload.BrandName),
		TermMonths:  max(payload.TermMonths, 0),
		Exclusivity: payload.Exclusivity,
		Summary:     strings.TrimSpace(payload.Summary),
	}
	if payload.CompensationUSD > 0 {
		out.CompensationCents = int64(math.Round(payload.CompensationUSD * 100))
	}
	for _, item := range payload.Deliverables {
		if item = strings.TrimSpace(item); item != "" {
			out.Deliverables = append(out.Deliverables, item)
		}
	}
	for _, flag := range payload.RedFlags {
		code := strings.ToLower(strings.TrimSpace(flag.Code))
		if code == "" {
			continue
		}
		out.RedFlags = append(out.RedFlags, deal.RedFlag{
			Code:     code,
			Severity: deal.ParseSeverity(flag.Severity),
			Message:  strings.TrimSpace(flag.Message),
		})
	}
	return out, nil
}

// stripCodeFence removes a surrounding markdown fence such as ```json ... ```.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
