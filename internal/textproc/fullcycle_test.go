package textproc

import "testing"

func newTestDetector() *FullCycleDetector {
	return NewFullCycleDetector(&FullCycleConfig{
		Phrases:         []string{"full cycle", "turnkey", "from concept to"},
		PlanningTerms:   []string{"concept", "planning", "strategy"},
		ProductionTerms: []string{"production", "development", "execution"},
		CompletionTerms: []string{"delivery", "final", "result"},
		Markers:         []string{"full", "comprehensive", "turnkey"},
	})
}

func TestFullCycleDetector(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "literal phrase",
			text: "we offer full cycle video work",
			want: true,
		},
		{
			name: "phrase case insensitive",
			text: "Turnkey solutions only",
			want: true,
		},
		{
			name: "all three stage buckets without marker",
			text: "concept work then production then delivery",
			want: true,
		},
		{
			name: "two buckets with completeness marker",
			text: "comprehensive planning and development services",
			want: true,
		},
		{
			name: "two buckets without marker",
			text: "planning and development services",
			want: false,
		},
		{
			name: "one bucket with marker",
			text: "full production only",
			want: false,
		},
		{
			name: "no signals",
			text: "let's have lunch tomorrow",
			want: false,
		},
		{
			name: "empty",
			text: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
