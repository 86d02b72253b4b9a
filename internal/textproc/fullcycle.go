package textproc

import "strings"

// FullCycleDetector decides whether a message describes an end-to-end
// service engagement spanning multiple project stages. The heuristic is an
// ordered union: a literal phrase match, terms from all three stage
// buckets, or terms from at least two buckets plus a completeness marker.
type FullCycleDetector struct {
	phrases []string
	buckets [3][]string
	markers []string
}

// FullCycleConfig holds the term lists the detector evaluates against.
type FullCycleConfig struct {
	Phrases         []string // literal "full-cycle" phrases, matched as substrings
	PlanningTerms   []string // planning / concept stage
	ProductionTerms []string // production / execution stage
	CompletionTerms []string // completion / delivery stage
	Markers         []string // generic completeness markers ("full", "turnkey", ...)
}

// NewFullCycleDetector creates a detector with lower-cased term lists.
func NewFullCycleDetector(cfg *FullCycleConfig) *FullCycleDetector {
	return &FullCycleDetector{
		phrases: lowerAll(cfg.Phrases),
		buckets: [3][]string{
			lowerAll(cfg.PlanningTerms),
			lowerAll(cfg.ProductionTerms),
			lowerAll(cfg.CompletionTerms),
		},
		markers: lowerAll(cfg.Markers),
	}
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// Detect reports whether the text reads as a full-cycle engagement.
func (d *FullCycleDetector) Detect(text string) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)

	if containsAny(lower, d.phrases) {
		return true
	}

	stages := 0
	for _, bucket := range d.buckets {
		if containsAny(lower, bucket) {
			stages++
		}
	}

	if stages == 3 {
		return true
	}
	if stages >= 2 && containsAny(lower, d.markers) {
		return true
	}

	return false
}
