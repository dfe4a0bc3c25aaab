package docai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/riskibarqy/nil-marketplace/internal/usecase"
	"google.golang.org/genai"
)

type fakeModels struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}, Role: genai.RoleModel},
		}},
	}, nil
}

func TestGeminiExtractor_ParsesFencedJSON(t *testing.T) {
	models := &fakeModels{text: "```json\n" + `{
  "brand_name": " Bolt Energy ",
  "compensation_usd": 1250.5,
  "deliverables": ["3 Instagram posts", " "],
  "term_months": 12,
  "exclusivity": true,
  "red_flags": [{"code": "Perpetual_Rights", "severity": "HIGH", "message": "rights never end"}],
  "summary": "Energy drink endorsement."
}` + "\n```"}

	extractor := newGeminiExtractor(models, "", logging.NewNop())
	got, err := extractor.Extract(context.Background(), usecase.DocumentInput{
		Data:     []byte{0x89, 'P', 'N', 'G'},
		MIMEType: "image/png",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := usecase.ExtractedDeal{
		BrandName:         "Bolt Energy",
		CompensationCents: 125050,
		Deliverables:      []string{"3 Instagram posts"},
		TermMonths:        12,
		Exclusivity:       true,
		RedFlags:          []deal.RedFlag{{Code: "perpetual_rights", Severity: deal.SeverityHigh, Message: "rights never end"}},
		Summary:           "Energy drink endorsement.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("extraction mismatch (-want +got):\n%s", diff)
	}
	if models.model != DefaultModel {
		t.Fatalf("expected default model, got %s", models.model)
	}
	if models.config == nil || models.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response config, got %+v", models.config)
	}
	parts := models.contents[0].Parts
	if len(parts) != 2 || parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "image/png" {
		t.Fatalf("expected prompt plus inline image, got %d parts", len(parts))
	}
}

func TestGeminiExtractor_PropagatesModelError(t *testing.T) {
	extractor := newGeminiExtractor(&fakeModels{err: errors.New("quota exceeded")}, "gemini-test", logging.NewNop())
	if _, err := extractor.Extract(context.Background(), usecase.DocumentInput{Text: "contract"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGeminiExtractor_RejectsProse(t *testing.T) {
	extractor := newGeminiExtractor(&fakeModels{text: "I could not read this document."}, "", logging.NewNop())
	if _, err := extractor.Extract(context.Background(), usecase.DocumentInput{Text: "contract"}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"{\"a\":1}":                    "{\"a\":1}",
		"```json\n{\"a\":1}\n```":      "{\"a\":1}",
		"```\n{\"a\":1}```":            "{\"a\":1}",
		"  ```JSON\n {\"a\":1} \n``` ": "{\"a\":1}",
		"```":                          "",
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
