package timecode

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"00:00:00,000", 0},
		{"00:00:01,000", 1000},
		{"00:01:02,345", 62345},
		{"01:00:00,001", 3600001},
		{"99:59:59,999", 99*3600000 + 59*60000 + 59*1000 + 999},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.in, err)
			}
			if ts.Millis() != tt.want {
				t.Errorf("Parse(%q) = %d ms, want %d", tt.in, ts.Millis(), tt.want)
			}
			if ts.String() != tt.in {
				t.Errorf("String() = %q, want %q", ts.String(), tt.in)
			}
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	inputs := []string{
		"",
		"00:00:01-000",
		"0:00:01,000",
		"00:00:01.000",
		"00:00:01,00",
		"00:00:01,0000",
		" 00:00:01,000",
		"aa:bb:cc,ddd",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if err == nil {
				t.Fatalf("expected error for %q", in)
			}
			if !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestNewNormalizesMillis(t *testing.T) {
	ts := New(59, 2500)
	if ts.Millis() != 61500 {
		t.Errorf("expected 61500 ms, got %d", ts.Millis())
	}
	if ts.String() != "00:01:01,500" {
		t.Errorf("expected 00:01:01,500, got %s", ts)
	}
}

func TestFromMillisClampsNegative(t *testing.T) {
	if got := FromMillis(-5); got.Millis() != 0 {
		t.Errorf("expected 0, got %d", got.Millis())
	}
	if got := FromMillis(20).Add(-30); got.Millis() != 0 {
		t.Errorf("expected Add below zero to clamp, got %d", got.Millis())
	}
}

func TestArithmetic(t *testing.T) {
	a := FromMillis(1234)
	b := FromMillis(1000)

	if a.Sub(b) != 234 {
		t.Errorf("a.Sub(b) = %d, want 234", a.Sub(b))
	}
	if b.Sub(a) != -234 {
		t.Errorf("b.Sub(a) = %d, want -234", b.Sub(a))
	}
	if got := b.Add(1); got.Millis() != 1001 {
		t.Errorf("b.Add(1) = %d, want 1001", got.Millis())
	}
	if a.Compare(b) != 1 || b.Compare(a) != -1 || a.Compare(a) != 0 {
		t.Error("Compare returned wrong ordering")
	}
	if !b.Before(a) || !a.After(b) || !a.Equal(FromMillis(1234)) {
		t.Error("ordering helpers disagree with Compare")
	}
}

func TestGrid(t *testing.T) {
	tests := []struct {
		ms      int64
		onTen   bool
		floored int64
	}{
		{0, true, 0},
		{9, false, 0},
		{10, true, 10},
		{1234, false, 1230},
		{1239, false, 1230},
		{1240, true, 1240},
	}

	for _, tt := range tests {
		ts := FromMillis(tt.ms)
		if ts.OnTenMs() != tt.onTen {
			t.Errorf("FromMillis(%d).OnTenMs() = %v, want %v", tt.ms, ts.OnTenMs(), tt.onTen)
		}
		if ts.Floor10().Millis() != tt.floored {
			t.Errorf("FromMillis(%d).Floor10() = %d, want %d", tt.ms, ts.Floor10().Millis(), tt.floored)
		}
	}
}

func TestInfinite(t *testing.T) {
	inf := Infinite()
	if !inf.IsInfinite() {
		t.Fatal("Infinite() should report IsInfinite")
	}
	if inf.String() != "+Inf" {
		t.Errorf("expected +Inf, got %s", inf)
	}

	latest, err := Parse("99:59:59,999")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !latest.Before(inf) {
		t.Error("infinite sentinel must compare after every parseable timestamp")
	}
	if inf.Sub(latest) != 1 {
		t.Errorf("expected subtraction to stay finite, got %d", inf.Sub(latest))
	}
}
