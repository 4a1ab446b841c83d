package util

import "testing"

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", "<doctag><text>a</text></doctag>", "<doctag><text>a</text></doctag>"},
		{"plain fence", "```\n<doctag></doctag>\n```", "<doctag></doctag>"},
		{"language fence", "```xml\n<doctag></doctag>\n```", "<doctag></doctag>"},
		{"surrounding space", "  ```text\nhello\n```  ", "hello"},
		{"fence on content line", "```<doctag></doctag>```", "<doctag></doctag>"},
		{"unterminated", "```\n<doctag></doctag>", "<doctag></doctag>"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		if got := StripCodeFences(tc.in); got != tc.want {
			t.Fatalf("%s: StripCodeFences(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}
