package advisory

import (
	"regexp"
	"strconv"
	"strings"

	"radagast/internal/domain"
)

type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyLow      Urgency = "LOW"
)

func (u Urgency) RequiresAction() bool {
	return u == UrgencyCritical || u == UrgencyHigh
}

var (
	labeledQuantityRe = regexp.MustCompile(`(?i)Quantity:\s*(\d+)`)
	midRangeNumberRe  = regexp.MustCompile(`\b([1-9]\d{1,2})\b`)
	anyNumberRe       = regexp.MustCompile(`\b([1-9]\d?\d?)\b`)
	nonDigitRe        = regexp.MustCompile(`[^0-9]`)
)

// ParseQuantity extracts a recommended order quantity from free text.
// Tiers, first hit wins: the exact "QUANTITY:" label, a case-insensitive
// labeled number, a 10..500 number on a line about quantities or
// ordering, any 10..300 number anywhere, and finally the deterministic
// calculator. The generator is not contract-bound to the requested
// format, so every tier must tolerate garbage.
func ParseQuantity(response string, product domain.Product) int {
	if seg, ok := segmentAfter(response, "QUANTITY:"); ok {
		digits := nonDigitRe.ReplaceAllString(seg, "")
		if digits != "" {
			if qty, err := strconv.Atoi(digits); err == nil && qty > 0 && qty <= 1000 {
				return qty
			}
		}
	}

	if m := labeledQuantityRe.FindStringSubmatch(response); m != nil {
		if qty, err := strconv.Atoi(m[1]); err == nil && qty > 0 && qty <= 1000 {
			return qty
		}
	}

	for _, line := range strings.Split(response, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "quantity") || strings.Contains(lower, "replenish") ||
			strings.Contains(lower, "recommend") || strings.Contains(lower, "order") {
			if m := midRangeNumberRe.FindStringSubmatch(line); m != nil {
				if qty, err := strconv.Atoi(m[1]); err == nil && qty >= 10 && qty <= 500 {
					return qty
				}
			}
		}
	}

	for _, m := range anyNumberRe.FindAllStringSubmatch(response, -1) {
		if qty, err := strconv.Atoi(m[1]); err == nil && qty >= 10 && qty <= 300 {
			return qty
		}
	}

	return FallbackQuantity(product)
}

// FallbackQuantity derives an order quantity from product data alone.
// Expensive items get smaller quantities.
func FallbackQuantity(product domain.Product) int {
	base := product.ReorderThreshold + 25
	if base < 35 {
		base = 35
	}

	if product.Price > 1000 {
		base = base / 2
		if base < 10 {
			base = 10
		}
	} else if product.Price > 100 {
		if base < 20 {
			base = 20
		}
	}

	return base
}

// ParseUrgency extracts an urgency level, preferring the labeled field,
// then direct keywords with CRITICAL > HIGH > MEDIUM > LOW precedence,
// then contextual stock phrases, defaulting to MEDIUM.
func ParseUrgency(response string) Urgency {
	upper := strings.ToUpper(response)

	if seg, ok := segmentAfter(upper, "URGENCY:"); ok {
		switch {
		case strings.Contains(seg, "CRITICAL"):
			return UrgencyCritical
		case strings.Contains(seg, "HIGH"):
			return UrgencyHigh
		case strings.Contains(seg, "MEDIUM"):
			return UrgencyMedium
		case strings.Contains(seg, "LOW"):
			return UrgencyLow
		}
	}

	switch {
	case strings.Contains(upper, "CRITICAL") || strings.Contains(upper, "EMERGENCY"):
		return UrgencyCritical
	case strings.Contains(upper, "HIGH") || strings.Contains(upper, "URGENT") || strings.Contains(upper, "IMMEDIATE"):
		return UrgencyHigh
	case strings.Contains(upper, "MEDIUM") || strings.Contains(upper, "MODERATE"):
		return UrgencyMedium
	case strings.Contains(upper, "LOW") || strings.Contains(upper, "MINOR"):
		return UrgencyLow
	}

	switch {
	case strings.Contains(upper, "OUT OF STOCK") || strings.Contains(upper, "ZERO STOCK") ||
		strings.Contains(upper, "CRITICALLY LOW"):
		return UrgencyCritical
	case strings.Contains(upper, "VERY LOW") || strings.Contains(upper, "RUNNING OUT") ||
		strings.Contains(upper, "SHORTAGE"):
		return UrgencyHigh
	}

	return UrgencyMedium
}

const defaultReasoning = "AI recommendation based on inventory analysis and sales patterns"

// ParseReasoning extracts the explanation text, preferring the labeled
// field and falling back to sentence heuristics.
func ParseReasoning(response string) string {
	for _, label := range []string{"REASON:", "Reason:"} {
		if seg, ok := segmentAfter(response, label); ok {
			reason := strings.TrimSpace(seg)
			if len(reason) > 10 {
				return reason
			}
		}
	}

	sentences := regexp.MustCompile(`[.!?\n]`).Split(response, -1)

	for i := len(sentences) - 1; i >= 0; i-- {
		sentence := strings.TrimSpace(sentences[i])
		lower := strings.ToLower(sentence)
		if len(sentence) > 20 &&
			(strings.Contains(lower, "because") || strings.Contains(lower, "due to") ||
				strings.Contains(lower, "based on") || strings.Contains(lower, "considering") ||
				strings.Contains(lower, "reason")) {
			return sentence
		}
	}

	for _, sentence := range sentences {
		trimmed := strings.TrimSpace(sentence)
		if len(trimmed) > 30 && !strings.Contains(trimmed, "QUANTITY") && !strings.Contains(trimmed, "URGENCY") {
			return trimmed
		}
	}

	return defaultReasoning
}

// segmentAfter returns the text following the first occurrence of the
// label, cut at the first newline or pipe.
func segmentAfter(text, label string) (string, bool) {
	idx := strings.Index(text, label)
	if idx < 0 {
		return "", false
	}

	seg := text[idx+len(label):]
	if cut := strings.IndexAny(seg, "\n|"); cut >= 0 {
		seg = seg[:cut]
	}

	return strings.TrimSpace(seg), true
}
