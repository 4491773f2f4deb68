package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDuration_UnmarshalJSON_String(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"90s"`), &d); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Fatalf("got %v, want 90s", d.Duration)
	}
}

func TestDuration_UnmarshalJSON_Number(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`1000000000`), &d); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if d.Duration != time.Second {
		t.Fatalf("got %v, want 1s", d.Duration)
	}
}

func TestDuration_UnmarshalJSON_Invalid(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatal("expected error for bad duration string")
	}
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatal("expected error for bool value")
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Duration{24 * time.Hour})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(b) != `"24h0m0s"` {
		t.Fatalf("got %s", b)
	}
}
