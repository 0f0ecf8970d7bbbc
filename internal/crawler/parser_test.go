package crawler

import (
	"reflect"
	"strings"
	"testing"
)

// TestParse tests text and link extraction.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("extracts visible text only", func(t *testing.T) {
		t.Parallel()

		page := `<html><head>
			<title>Research Areas</title>
			<style>body { color: red; }</style>
			<script>var tracking = true;</script>
		</head><body>
			<h1>Machine Learning</h1>
			<p>Faculty and students.</p>
			<noscript>enable javascript</noscript>
		</body></html>`

		parser, err := NewParser("http://www.ics.uci.edu/research")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}
		result, err := parser.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		for _, want := range []string{"Research Areas", "Machine Learning", "Faculty and students."} {
			if !strings.Contains(result.Text, want) {
				t.Errorf("text %q missing %q", result.Text, want)
			}
		}
		for _, banned := range []string{"tracking", "color", "enable javascript"} {
			if strings.Contains(result.Text, banned) {
				t.Errorf("text %q leaked non-visible content %q", result.Text, banned)
			}
		}
	})

	t.Run("resolves relative links against the page url", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<a href="/grad/admissions">Admissions</a>
			<a href="courses">Courses</a>
			<a href="http://www.stat.uci.edu/">Statistics</a>
			<a href="../about">About</a>
		</body></html>`

		parser, err := NewParser("http://www.ics.uci.edu/grad/overview")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}
		result, err := parser.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		want := []string{
			"http://www.ics.uci.edu/grad/admissions",
			"http://www.ics.uci.edu/grad/courses",
			"http://www.stat.uci.edu/",
			"http://www.ics.uci.edu/about",
		}
		if !reflect.DeepEqual(result.Links, want) {
			t.Errorf("links = %v, want %v", result.Links, want)
		}
	})

	t.Run("drops non-page schemes and fragments", func(t *testing.T) {
		t.Parallel()

		page := `<html><body>
			<a href="mailto:chair@ics.uci.edu">Email</a>
			<a href="javascript:void(0)">Menu</a>
			<a href="tel:+19498245011">Call</a>
			<a href="#section">Jump</a>
			<a href="">Empty</a>
			<a href="/real">Real</a>
		</body></html>`

		parser, err := NewParser("http://www.ics.uci.edu/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}
		result, err := parser.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		want := []string{"http://www.ics.uci.edu/real"}
		if !reflect.DeepEqual(result.Links, want) {
			t.Errorf("links = %v, want %v", result.Links, want)
		}
	})

	t.Run("tolerates malformed html", func(t *testing.T) {
		t.Parallel()

		page := `<html><body><p>unclosed paragraph <a href="/x">link</body>`

		parser, err := NewParser("http://www.ics.uci.edu/")
		if err != nil {
			t.Fatalf("failed to create parser: %v", err)
		}
		result, err := parser.Parse(strings.NewReader(page))
		if err != nil {
			t.Fatalf("parse of malformed html failed: %v", err)
		}
		if len(result.Links) != 1 {
			t.Errorf("links = %v, want one", result.Links)
		}
	})
}

// TestParsePage tests the filter-facing adapter.
func TestParsePage(t *testing.T) {
	t.Parallel()

	text, links, err := ParsePage("http://www.ics.uci.edu/", []byte(`<a href="/a">anchor text</a>`))
	if err != nil {
		t.Fatalf("parse page failed: %v", err)
	}
	if text != "anchor text" {
		t.Errorf("text = %q, want %q", text, "anchor text")
	}
	if len(links) != 1 || links[0] != "http://www.ics.uci.edu/a" {
		t.Errorf("links = %v", links)
	}
}
