package domain_test

import (
	"reflect"
	"testing"

	"github.com/diagnosis/taipei-trip/internal/domain"
)

func TestParseImageField(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			"json array",
			`["https://a.example/1.jpg","https://a.example/2.png"]`,
			[]string{"https://a.example/1.jpg", "https://a.example/2.png"},
		},
		{
			"empty json array",
			`[]`,
			[]string{},
		},
		{
			"null json array",
			`null`,
			[]string{},
		},
		{
			"comma delimited blob",
			"https://a.example/1.jpg,https://a.example/2.JPG,https://a.example/notes.txt",
			[]string{"https://a.example/1.jpg", "https://a.example/2.JPG"},
		},
		{
			"space delimited blob",
			"https://a.example/x.png https://b.example/y.gif",
			[]string{"https://a.example/x.png", "https://b.example/y.gif"},
		},
		{
			"http scheme and jpeg extension",
			"http://a.example/photo.jpeg",
			[]string{"http://a.example/photo.jpeg"},
		},
		{
			"no urls at all",
			"just some text",
			[]string{},
		},
		{
			"empty input",
			"",
			[]string{},
		},
		{
			"malformed json falls back to extraction",
			`["https://a.example/1.jpg", broken`,
			[]string{"https://a.example/1.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ParseImageField(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseImageField(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseImageField_NeverNil(t *testing.T) {
	// The result marshals as a JSON array, never null.
	for _, raw := range []string{"", "[]", "no urls here", `["broken`} {
		if domain.ParseImageField(raw) == nil {
			t.Fatalf("ParseImageField(%q) returned nil", raw)
		}
	}
}

func TestFirstImage(t *testing.T) {
	if got := domain.FirstImage([]string{"a", "b"}); got != "a" {
		t.Fatalf("expected first image 'a', got %q", got)
	}
	if got := domain.FirstImage(nil); got != "" {
		t.Fatalf("expected empty string for no images, got %q", got)
	}
}

func TestOrderNumberPattern(t *testing.T) {
	valid := []string{"20250301-0001", "20251231-9999"}
	invalid := []string{"", "20250301-1", "2025031-0001", "20250301_0001", "x20250301-0001"}

	for _, n := range valid {
		if !domain.OrderNumberPattern.MatchString(n) {
			t.Errorf("expected %q to match", n)
		}
	}
	for _, n := range invalid {
		if domain.OrderNumberPattern.MatchString(n) {
			t.Errorf("expected %q not to match", n)
		}
	}
}
