package money

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"99.50", 9950, true},
		{"40", 4000, true},
		{"0.05", 5, true},
		{"7.5", 750, true},
		{"-12.25", -1225, true},
		{".99", 99, true},
		{"1.999", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got %d", tc.in, got.Cents())
			}
			continue
		}
		if got.Cents() != tc.want {
			t.Fatalf("Parse(%q) = %d cents, want %d", tc.in, got.Cents(), tc.want)
		}
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		in   Amount
		want string
	}{
		{FromCents(9950), "99.50"},
		{FromCents(5), "0.05"},
		{FromCents(0), "0.00"},
		{FromCents(-1225), "-12.25"},
	}

	for _, tc := range cases {
		if got := tc.in.String(); got != tc.want {
			t.Fatalf("String(%d) = %q, want %q", tc.in.Cents(), got, tc.want)
		}
	}
}

func TestMul(t *testing.T) {
	if got := FromCents(750).Mul(3); got.Cents() != 2250 {
		t.Fatalf("Mul = %d, want 2250", got.Cents())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(FromCents(9950))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"99.50"` {
		t.Fatalf("Marshal = %s, want \"99.50\"", data)
	}

	var a Amount
	if err := json.Unmarshal(data, &a); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if a.Cents() != 9950 {
		t.Fatalf("Unmarshal = %d cents, want 9950", a.Cents())
	}
}

func TestUnmarshalBareNumberAndNull(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`40.5`), &a); err != nil {
		t.Fatalf("Unmarshal bare number failed: %v", err)
	}
	if a.Cents() != 4050 {
		t.Fatalf("Unmarshal bare number = %d cents, want 4050", a.Cents())
	}

	if err := json.Unmarshal([]byte(`null`), &a); err != nil {
		t.Fatalf("Unmarshal null failed: %v", err)
	}
	if a.Cents() != 0 {
		t.Fatalf("Unmarshal null = %d cents, want 0", a.Cents())
	}
}
