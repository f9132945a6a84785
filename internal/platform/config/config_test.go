package config

import (
	"testing"
	"time"

	"careview/internal/platform/testkit"
)

func TestPrefixComposesKeys(t *testing.T) {
	c := New().Prefix("CARE_").Prefix("API_")
	if got := c.key("BASE_URL"); got != "CARE_API_BASE_URL" {
		t.Fatalf("key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	t.Setenv("CARE_API_BASE_URL", "  https://care.example.org  ")
	if got := New().Prefix("CARE_API_").MustString("BASE_URL"); got != "https://care.example.org" {
		t.Fatalf("MustString = %q", got)
	}
	t.Setenv("CARE_API_BASE_URL", " ")
	testkit.MustPanic(t, func() { New().Prefix("CARE_API_").MustString("BASE_URL") })
}

func TestMayReaders(t *testing.T) {
	c := New().Prefix("LIST_")
	t.Setenv("LIST_NAME", " comments ")
	t.Setenv("LIST_SIZE", "512")
	t.Setenv("LIST_RATE", "2.5")
	t.Setenv("LIST_ON", "true")
	t.Setenv("LIST_TTL", "90s")

	if got := c.MayString("NAME", "x"); got != "comments" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("MISSING", "x"); got != "x" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := c.MayInt("SIZE", 1); got != 512 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayFloat64("RATE", 0); got != 2.5 {
		t.Fatalf("MayFloat64 = %v", got)
	}
	if !c.MayBool("ON", false) {
		t.Fatalf("MayBool = false")
	}
	if got := c.MayDuration("TTL", 0); got != 90*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
}

func TestMayReaders_InvalidFallsBack(t *testing.T) {
	c := New().Prefix("LIST_")
	t.Setenv("LIST_SIZE", "lots")
	t.Setenv("LIST_RATE", "fast")
	t.Setenv("LIST_ON", "maybe")
	t.Setenv("LIST_TTL", "soon")

	if got := c.MayInt("SIZE", 7); got != 7 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayFloat64("RATE", 1.5); got != 1.5 {
		t.Fatalf("MayFloat64 = %v", got)
	}
	if !c.MayBool("ON", true) {
		t.Fatalf("MayBool should keep default")
	}
	if got := c.MayDuration("TTL", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration = %v", got)
	}
}
