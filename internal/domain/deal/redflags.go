package deal

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type flagRule struct {
	code     string
	severity Severity
	message  string
	pattern  *regexp.Regexp
}

var flagRules = []flagRule{
	{
		code:     "perpetual_rights",
		severity: SeverityHigh,
		message:  "Grants rights in perpetuity or irrevocably; NIL rights should be time limited.",
		pattern:  regexp.MustCompile(`(?i)\b(in\s+perpetuity|perpetual(ly)?|irrevocabl[ey]|forever)\b`),
	},
	{
		code:     "exclusivity",
		severity: SeverityMedium,
		message:  "Exclusivity clause may block other sponsorships.",
		pattern:  regexp.MustCompile(`(?i)\bexclusiv(e|ity)\b`),
	},
	{
		code:     "non_compete",
		severity: SeverityMedium,
		message:  "Non-compete restricts working with competing brands.",
		pattern:  regexp.MustCompile(`(?i)\bnon[\s-]?compet(e|ition)\b`),
	},
	{
		code:     "school_marks",
		severity: SeverityHigh,
		message:  "Uses school logos, marks or uniforms without institutional approval.",
		pattern:  regexp.MustCompile(`(?i)\b(school|university|college|team)\s+(logo|logos|marks?|trademarks?|uniforms?|jersey)\b`),
	},
	{
		code:     "pay_for_play",
		severity: SeverityHigh,
		message:  "Compensation tied to enrollment, athletic performance or recruiting.",
		pattern:  regexp.MustCompile(`(?i)\b(commit(ting|ment)?\s+to|enroll(ing|ment)?\s+(at|in)|transfer(ring)?\s+to|recruit(ing|ment)?|per\s+(touchdown|goal|point|win)|performance\s+bonus)\b`),
	},
	{
		code:     "upfront_fee",
		severity: SeverityHigh,
		message:  "Athlete is asked to pay a fee to participate.",
		pattern:  regexp.MustCompile(`(?i)\b(upfront|up-front|registration|sign[\s-]?up|processing|onboarding)\s+fee\b|\bathlete\s+(shall|will|must)\s+pay\b`),
	},
	{
		code:     "auto_renewal",
		severity: SeverityMedium,
		message:  "Contract renews automatically.",
		pattern:  regexp.MustCompile(`(?i)\b(auto(matically)?[\s-]?renew(s|al|ed)?|renews?\s+automatically)\b`),
	},
	{
		code:     "unilateral_termination",
		severity: SeverityMedium,
		message:  "Only the brand may terminate the agreement.",
		pattern:  regexp.MustCompile(`(?i)\b(sole\s+discretion|at\s+any\s+time\s+without\s+(cause|notice)|unilateral(ly)?)\b`),
	},
}

var (
	paymentTermsPattern = regexp.MustCompile(`(?i)(\$\s?\d|\b\d[\d,]*(\.\d+)?\s?(usd|dollars)\b|\bcompensat|\bpayment\b|\bpaid\b|\bfee\b|\bstipend\b)`)
	compensationPattern = regexp.MustCompile(`(?i)(?:\$\s?(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?\s*(k)?\b|\b(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?\s*(k)?\s?(?:usd|dollars)\b)`)
)

// MissingPaymentTermsCode is reported when no compensation language is found.
const MissingPaymentTermsCode = "missing_payment_terms"

// DetectRedFlags scans free text for risky contract language. The result is
// sorted by code and contains each code at most once.
func DetectRedFlags(text string) []RedFlag {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	out := make([]RedFlag, 0, 4)
	for _, rule := range flagRules {
		if rule.pattern.MatchString(text) {
			out = append(out, RedFlag{Code: rule.code, Severity: rule.severity, Message: rule.message})
		}
	}
	if !paymentTermsPattern.MatchString(text) {
		out = append(out, RedFlag{
			Code:     MissingPaymentTermsCode,
			Severity: SeverityMedium,
			Message:  "No payment amount or payment terms were found.",
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ExtractCompensationCents returns the largest dollar amount mentioned in text.
func ExtractCompensationCents(text string) (int64, bool) {
	var best int64
	found := false
	for _, m := range compensationPattern.FindAllStringSubmatch(text, -1) {
		whole, frac, thousands := m[1], m[2], m[3]
		if whole == "" {
			whole, frac, thousands = m[4], m[5], m[6]
		}
		cents, ok := parseDollars(whole, frac, thousands != "")
		if !ok {
			continue
		}
		if !found || cents > best {
			best = cents
			found = true
		}
	}
	return best, found
}

func parseDollars(whole, frac string, thousands bool) (int64, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(whole, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if frac != "" {
		f, err := strconv.ParseFloat("0."+frac, 64)
		if err != nil {
			return 0, false
		}
		value += f
	}
	if thousands {
		value *= 1000
	}
	return int64(math.Round(value * 100)), true
}

// MergeRedFlags unions flag lists by code. When both carry a code the higher
// severity wins.
func MergeRedFlags(lists ...[]RedFlag) []RedFlag {
	byCode := make(map[string]RedFlag)
	for _, list := range lists {
		for _, flag := range list {
			code := strings.ToLower(strings.TrimSpace(flag.Code))
			if code == "" {
				continue
			}
			flag.Code = code
			existing, ok := byCode[code]
			if !ok || severityRank(flag.Severity) > severityRank(existing.Severity) {
				byCode[code] = flag
			}
		}
	}

	out := make([]RedFlag, 0, len(byCode))
	for _, flag := range byCode {
		out = append(out, flag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}
