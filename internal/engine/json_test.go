package engine

import "testing"

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"items":[]}`, `{"items":[]}`},
		{"json fence", "```json\n{\"items\":[]}\n```", `{"items":[]}`},
		{"plain fence", "```\n{\"items\":[]}\n```", `{"items":[]}`},
		{"prose wrapped", "Here is the data:\n{\"items\":[]}\nLet me know.", `{"items":[]}`},
		{"whitespace", "  \n{\"items\":[]}\n  ", `{"items":[]}`},
		{"no json", "no products found", "no products found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanJSON(tc.in); got != tc.want {
				t.Errorf("cleanJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
