package oracle

import "testing"

func TestExtractSpan(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"Plain", `{"final": true}`, `{"final": true}`, true},
		{"Fenced", "```json\n{\"a\": {\"b\": 1}}\n```", `{"a": {"b": 1}}`, true},
		{"FirstOfTwo", `{"a":1} and {"b":2}`, `{"a":1}`, true},
		{"EscapedQuote", `{"a":"x\"}"}`, `{"a":"x\"}"}`, true},
		{"None", "nothing here", "", false},
		{"Open", `{"a": 1`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractObject(tc.in)
			if ok != tc.ok || got != tc.want {
				t.Errorf("extractObject(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestExtractArrayOrObject(t *testing.T) {
	span, isArray, ok := extractArrayOrObject(`Plan: [{"month":"Month 1"}]`)
	if !ok || !isArray || span != `[{"month":"Month 1"}]` {
		t.Errorf("unexpected array extraction: %q %v %v", span, isArray, ok)
	}

	span, isArray, ok = extractArrayOrObject(`{"milestones": [1]}`)
	if !ok || isArray || span != `{"milestones": [1]}` {
		t.Errorf("unexpected object extraction: %q %v %v", span, isArray, ok)
	}
}
