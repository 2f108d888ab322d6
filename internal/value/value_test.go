package value

import (
	"regexp"
	"testing"
	"time"
)

func TestStringLossyReplacesInvalidBytes(t *testing.T) {
	v := Bytes([]byte{'b', 'y', 0xff, 'e'})
	got, err := v.StringLossy()
	if err != nil {
		t.Fatalf("lossy conversion must not fail on bad encoding: %v", err)
	}
	if got != "by�e" {
		t.Fatalf("expected replacement rune, got %q", got)
	}
}

func TestStringLossyRejectsNonString(t *testing.T) {
	if _, err := Integer(42).StringLossy(); err == nil {
		t.Fatalf("expected error for non-string value")
	}
}

func TestFromAnyRoundTrip(t *testing.T) {
	in := map[string]any{
		"msg":   "hello",
		"count": int64(3),
		"ratio": 0.5,
		"ok":    true,
		"tags":  []any{"a", "b"},
		"gone":  nil,
	}
	v := FromAny(in)
	if v.Kind != VKObject {
		t.Fatalf("expected object, got %s", v.Kind)
	}
	if got := v.Object["count"]; got.Kind != VKInteger || got.Int != 3 {
		t.Fatalf("unexpected count: %+v", got)
	}
	if got := v.Object["tags"]; got.Kind != VKArray || len(got.Array) != 2 {
		t.Fatalf("unexpected tags: %+v", got)
	}

	out, ok := ToAny(v).(map[string]any)
	if !ok {
		t.Fatalf("expected map from ToAny")
	}
	if out["msg"] != "hello" || out["ok"] != true {
		t.Fatalf("round trip lost fields: %+v", out)
	}
}

func TestFromAnyUint64Overflow(t *testing.T) {
	v := FromAny(uint64(1) << 63)
	if v.Kind != VKFloat {
		t.Fatalf("expected float fallback for out-of-range uint64, got %s", v.Kind)
	}
}

func TestEqual(t *testing.T) {
	a := Object(map[string]Value{"x": Integer(1), "y": String("s")})
	b := Object(map[string]Value{"y": String("s"), "x": Integer(1)})
	if !a.Equal(b) {
		t.Fatalf("structurally equal objects must compare equal")
	}
	if a.Equal(Object(map[string]Value{"x": Integer(2), "y": String("s")})) {
		t.Fatalf("different payloads must not compare equal")
	}
	if String("a").Equal(Integer(1)) {
		t.Fatalf("kind mismatch must not compare equal")
	}
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{String("bye"), `"bye"`},
		{Integer(-7), "-7"},
		{Float(1.5), "1.5"},
		{Boolean(true), "true"},
		{Regexp(regexp.MustCompile(`\d+`)), `r'\d+'`},
		{Array([]Value{Integer(1), String("x")}), `[1, "x"]`},
		{Timestamp(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)), "t'2026-01-02T03:04:05Z'"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}
