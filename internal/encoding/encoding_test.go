package encoding

import "testing"

func TestRuneCount(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want int
	}{
		{"ascii", []byte("hello"), 5},
		{"empty", []byte(""), 0},
		{"multibyte", []byte("héllo"), 5}, // é is 2 bytes, 1 scalar
		{"emoji", []byte("a😀b"), 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RuneCount(c.in); got != c.want {
				t.Errorf("RuneCount(%q) = %d, want %d", c.in, got, c.want)
			}
		})
	}
}

func TestStripBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hi")...)
	if got := string(StripBOM(withBOM)); got != "hi" {
		t.Errorf("StripBOM = %q, want %q", got, "hi")
	}
	if got := string(StripBOM([]byte("hi"))); got != "hi" {
		t.Errorf("StripBOM without BOM = %q, want %q", got, "hi")
	}
}

func TestResolveLabels(t *testing.T) {
	for _, label := range []string{"utf-8", "latin1", "UTF-16"} {
		if _, err := Resolve(label); err != nil {
			t.Errorf("Resolve(%q) error: %v", label, err)
		}
	}
	if _, err := Resolve("not-a-real-encoding"); err == nil {
		t.Error("Resolve(garbage) should error")
	}
}

func TestResolveNumericCodepage(t *testing.T) {
	if _, err := Resolve("1252"); err != nil {
		t.Errorf("Resolve(1252) error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	if ok, _ := Validate([]byte("hello")); !ok {
		t.Error("expected valid UTF-8")
	}
	if ok, off := Validate([]byte{0x68, 0xFF, 0x68}); ok || off != 1 {
		t.Errorf("expected invalid at offset 1, got ok=%v off=%d", ok, off)
	}
}
