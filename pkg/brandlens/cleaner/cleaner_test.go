package cleaner

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no markup here", "no markup here"},
		{"tags", "<p>great <b>phone</b></p>", "great phone"},
		{"entity", "fast &amp; cheap", "fast & cheap"},
		{"nested", "<div><span>works</span> fine</div>", "works fine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Great PHONE", "great phone"},
		{"url", "love it https://example.com/x?y=1 totally", "love it totally"},
		{"www url", "see www.example.com now", "see now"},
		{"emoji", "amazing \U0001F600\U0001F44D battery", "amazing battery"},
		{"punctuation boundary", "fast.shipping,great!", "fast shipping great"},
		{"contraction kept", "Don't buy it", "don't buy it"},
		{"hyphen kept", "long-lasting battery", "long-lasting battery"},
		{"whitespace collapse", "  too   many \t spaces \n", "too many spaces"},
		{"markup and url", "<a href=\"https://x.io\">broken screen</a> https://x.io", "broken screen"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
