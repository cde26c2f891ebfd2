package envutil

import (
	"testing"
	"time"
)

func TestTypedReadersFallBackOnBadInput(t *testing.T) {
	t.Setenv("EU_INT", "nope")
	t.Setenv("EU_BOOL", "maybe")
	t.Setenv("EU_DUR", "soon")
	if got := Int("EU_INT", 7, nil); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	if got := Bool("EU_BOOL", true, nil); !got {
		t.Fatalf("Bool: want=true got=%v", got)
	}
	if got := Duration("EU_DUR", time.Second, nil); got != time.Second {
		t.Fatalf("Duration: want=1s got=%s", got)
	}
}

func TestTypedReadersParse(t *testing.T) {
	t.Setenv("EU_INT", " 42 ")
	t.Setenv("EU_BOOL", "off")
	t.Setenv("EU_DUR", "15")
	t.Setenv("EU_CSV", "a, b,,c")
	t.Setenv("EU_KV", "x=1, bad, y = 2")
	if got := Int("EU_INT", 0, nil); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
	if got := Bool("EU_BOOL", true, nil); got {
		t.Fatalf("Bool: want=false got=%v", got)
	}
	if got := Duration("EU_DUR", 0, nil); got != 15*time.Second {
		t.Fatalf("Duration: want=15s got=%s", got)
	}
	if got := CSV("EU_CSV", nil, nil); len(got) != 3 || got[2] != "c" {
		t.Fatalf("CSV: got=%v", got)
	}
	kv := KeyValues("EU_KV", nil)
	if len(kv) != 2 || kv["x"] != "1" || kv["y"] != "2" {
		t.Fatalf("KeyValues: got=%v", kv)
	}
	if got := String("EU_MISSING", "def", nil); got != "def" {
		t.Fatalf("String: want=def got=%s", got)
	}
}
