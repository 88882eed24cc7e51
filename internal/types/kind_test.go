package types

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Unknown:   "Unknown",
		Null:      "Null",
		Bool:      "Bool",
		Timedelta: "Timedelta",
		DateTime:  "DateTime",
		Date:      "Date",
		Number:    "Number",
		Text:      "Text",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
