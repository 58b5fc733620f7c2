package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int
		wantErr bool
	}{
		{"commas", "1,2,3", []int{1, 2, 3}, false},
		{"spaces", "  4 5   6 ", []int{4, 5, 6}, false},
		{"mixed with empty tokens", "7,, 8 ,9,", []int{7, 8, 9}, false},
		{"negative", "-3, 0, 3", []int{-3, 0, 3}, false},
		{"empty", "", []int{}, false},
		{"letters", "1, two, 3", nil, true},
		{"float", "1.5", nil, true},
		{"too large", "10000", nil, true},
		{"too small", "-10000", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tt.in, got)
				}
				var inv *InvalidInputError
				if !errors.As(err, &inv) {
					t.Errorf("error %T is not *InvalidInputError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNamesBadToken(t *testing.T) {
	_, err := Parse("3, x7, 9")
	var inv *InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v", err)
	}
	if inv.Input != "x7" {
		t.Errorf("Input = %q, want x7", inv.Input)
	}
	if !strings.Contains(err.Error(), "x7") {
		t.Errorf("message %q does not name the token", err.Error())
	}
}

func TestParseTooMany(t *testing.T) {
	in := strings.Repeat("1,", MaxLen+1)
	if _, err := Parse(in); err == nil {
		t.Fatal("expected error for too many values")
	}
	if _, err := Parse(strings.Repeat("1,", MaxLen)); err != nil {
		t.Fatalf("MaxLen values rejected: %v", err)
	}
}

func TestParseValue(t *testing.T) {
	if v, err := ParseValue(" 42 "); err != nil || v != 42 {
		t.Errorf("ParseValue = %d, %v", v, err)
	}
	if _, err := ParseValue(""); err == nil {
		t.Error("expected error for empty value")
	}
	if _, err := ParseValue("NaN"); err == nil {
		t.Error("expected error for NaN")
	}
}

func TestCheckAndFormat(t *testing.T) {
	if err := Check([]int{1, -9999, 9999}); err != nil {
		t.Errorf("Check: %v", err)
	}
	if err := Check([]int{1, 12345}); err == nil {
		t.Error("expected out-of-range error")
	}
	if got := Format([]int{3, -1, 20}); got != "3, -1, 20" {
		t.Errorf("Format = %q", got)
	}
	back, err := Parse(Format([]int{3, -1, 20}))
	if err != nil || !reflect.DeepEqual(back, []int{3, -1, 20}) {
		t.Errorf("Parse(Format) = %v, %v", back, err)
	}
}

func TestRandom(t *testing.T) {
	a := Random(10, 7)
	b := Random(10, 7)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed differs: %v vs %v", a, b)
	}
	if len(a) != 10 {
		t.Fatalf("len = %d", len(a))
	}
	for _, v := range a {
		if v < 1 || v > 99 {
			t.Errorf("value %d out of range", v)
		}
	}
	if got := len(Random(1000, 1)); got != MaxLen {
		t.Errorf("len clamped = %d, want %d", got, MaxLen)
	}
	if got := len(Random(-1, 1)); got != 0 {
		t.Errorf("negative n gave %d values", got)
	}
}
