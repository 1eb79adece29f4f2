package parse

import "testing"

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "bare array",
			raw:  `[{"a":1}]`,
			want: `[{"a":1}]`,
			ok:   true,
		},
		{
			name: "commentary around array",
			raw:  "Sure! Here is the JSON:\n[{\"a\":1}]\nHope that helps.",
			want: `[{"a":1}]`,
			ok:   true,
		},
		{
			name: "json code fence",
			raw:  "```json\n[{\"a\":1}]\n```",
			want: `[{"a":1}]`,
			ok:   true,
		},
		{
			name: "plain code fence",
			raw:  "```\n[1, 2, 3]\n```",
			want: `[1, 2, 3]`,
			ok:   true,
		},
		{
			name: "nested arrays",
			raw:  `prefix [[1,2],[3,4]] suffix`,
			want: `[[1,2],[3,4]]`,
			ok:   true,
		},
		{
			name: "brackets inside string values",
			raw:  `[{"description":"item [2 of 3]","amount":4.5}]`,
			want: `[{"description":"item [2 of 3]","amount":4.5}]`,
			ok:   true,
		},
		{
			name: "escaped quotes inside strings",
			raw:  `[{"description":"he said \"hi [there]\"","amount":1}]`,
			want: `[{"description":"he said \"hi [there]\"","amount":1}]`,
			ok:   true,
		},
		{
			name: "first bracket malformed, later array valid",
			raw:  `broken [1,2 then later a good one [3,4]`,
			want: `[3,4]`,
			ok:   true,
		},
		{
			name: "no array",
			raw:  `{"a": 1}`,
			ok:   false,
		},
		{
			name: "unbalanced bracket only",
			raw:  `[1, 2, 3`,
			ok:   false,
		},
		{
			name: "empty input",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONArray(tt.raw)
			if ok != tt.ok {
				t.Fatalf("extractJSONArray() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("extractJSONArray() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"```json\n[1]\n```", "[1]"},
		{"```\n[1]\n```", "[1]"},
		{"[1]", "[1]"},
		{"  [1]  ", "[1]"},
	}

	for _, tt := range tests {
		if got := stripCodeFences(tt.raw); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
