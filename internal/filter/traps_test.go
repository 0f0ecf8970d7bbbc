package filter

import (
	"strings"
	"testing"

	"github.com/nao1215/campuscrawl/internal/model"
)

// TestIsTrap tests the structural trap heuristic.
func TestIsTrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "plain department page",
			url:  "http://www.ics.uci.edu/about",
			want: false,
		},
		{
			name: "overlong url",
			url:  "http://www.ics.uci.edu/" + strings.Repeat("a", maxURLLength),
			want: true,
		},
		{
			name: "path deeper than the ceiling",
			url:  "http://www.ics.uci.edu/a/b/c/d/e/f/g/h/i/j/k",
			want: true,
		},
		{
			name: "path at the ceiling",
			url:  "http://www.ics.uci.edu/a/b/c/d/e/f/g/h/i/j",
			want: false,
		},
		{
			name: "calendar segment",
			url:  "http://www.ics.uci.edu/calendar/2024-01",
			want: true,
		},
		{
			name: "events segment",
			url:  "http://www.ics.uci.edu/community/events/seminar",
			want: true,
		},
		{
			name: "repeated segment alias loop",
			url:  "http://www.ics.uci.edu/news/archive/news",
			want: true,
		},
		{
			name: "date paging parameter",
			url:  "http://www.ics.uci.edu/seminars?year=2019",
			want: true,
		},
		{
			name: "ical export parameter",
			url:  "http://www.ics.uci.edu/seminars?ical=1",
			want: true,
		},
		{
			name: "dynamic ui action parameter",
			url:  "http://www.ics.uci.edu/wiki?action=edit",
			want: true,
		},
		{
			name: "download action is allowed",
			url:  "http://www.ics.uci.edu/files?action=download",
			want: false,
		},
		{
			name: "harmless query parameter",
			url:  "http://www.ics.uci.edu/people?letter=b",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := model.Canonicalize(tt.url)
			if err != nil {
				t.Fatalf("failed to canonicalize %q: %v", tt.url, err)
			}
			if got := IsTrap(u); got != tt.want {
				t.Errorf("IsTrap(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// TestIsValid tests the frontier admission predicate.
func TestIsValid(t *testing.T) {
	t.Parallel()

	f := New(nil,
		WithAllowedDomains([]string{"ics.uci.edu", "cs.uci.edu", "informatics.uci.edu", "stat.uci.edu"}),
		WithOverallDomain("uci.edu"),
	)

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "allowed domain root",
			url:  "http://www.ics.uci.edu/",
			want: true,
		},
		{
			name: "true subdomain of an allowed domain",
			url:  "https://vision.ics.uci.edu/projects",
			want: true,
		},
		{
			name: "exact allowed domain without www",
			url:  "http://stat.uci.edu/courses",
			want: true,
		},
		{
			name: "host outside the allow-list",
			url:  "http://www.eng.uci.edu/",
			want: false,
		},
		{
			name: "lookalike suffix is not a subdomain",
			url:  "http://notics.uci.edu/",
			want: false,
		},
		{
			name: "unparseable url",
			url:  "http://[bad",
			want: false,
		},
		{
			name: "mailto scheme",
			url:  "mailto:chair@ics.uci.edu",
			want: false,
		},
		{
			name: "blocked pdf extension",
			url:  "http://www.ics.uci.edu/papers/thesis.pdf",
			want: false,
		},
		{
			name: "blocked archive extension",
			url:  "http://www.ics.uci.edu/datasets/ml.tar.gz",
			want: false,
		},
		{
			name: "extension only matters at the path end",
			url:  "http://www.ics.uci.edu/css-tutorial/intro",
			want: true,
		},
		{
			name: "version control commit view",
			url:  "http://gitlab.ics.uci.edu/group/repo/commit/abc123",
			want: false,
		},
		{
			name: "version control blame view",
			url:  "http://gitlab.ics.uci.edu/group/repo/blame/main/file.go",
			want: false,
		},
		{
			name: "calendar trap on an allowed host",
			url:  "http://www.ics.uci.edu/calendar/month",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := f.IsValid(tt.url); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
