package urlenc

import (
	"net/url"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "unreserved only", input: "Attention-is_all.you~need42", want: "Attention-is_all.you~need42"},
		{name: "space", input: "a b", want: "a%20b"},
		{name: "plus and slash", input: "a+b/c", want: "a%2Bb%2Fc"},
		{name: "colon", input: "ti:x", want: "ti%3Ax"},
		{name: "uppercase hex", input: "?&=", want: "%3F%26%3D"},
		{name: "utf8 bytes", input: "é", want: "%C3%A9"},
		{name: "percent", input: "100%", want: "100%25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.input); got != tt.want {
				t.Errorf("Encode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncode_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"Deep residual learning for image recognition",
		"K. He, X. Zhang (2016) CVPR: 770-778",
		"ünïcödé & «quotes»",
		"%41 already escaped?",
	}

	for _, s := range inputs {
		encoded := Encode(s)
		decoded, err := url.PathUnescape(encoded)
		if err != nil {
			t.Fatalf("PathUnescape(%q) error = %v", encoded, err)
		}
		if decoded != s {
			t.Errorf("round trip of %q = %q", s, decoded)
		}
		if again := Encode(decoded); again != encoded {
			t.Errorf("Encode(decode(Encode(%q))) = %q, want %q", s, again, encoded)
		}
	}
}
