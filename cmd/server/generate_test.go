package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/coupon-distributor/internal/config"
)

func generateTestConfig() config.Config {
	return config.Config{
		Denominations:       []int{250, 500, 1000, 2000},
		MaxCoupons:          50,
		MaxAlternatives:     3,
		MaxRounds:           1000,
		MaxAttempts:         100,
		Seed:                42,
		ShutdownGracePeriod: time.Second,
	}
}

func intPtr(v int) *int {
	return &v
}

func TestGenerateWritesReport(t *testing.T) {
	var out bytes.Buffer
	flags := generateFlags{target: intPtr(5000), coupons: intPtr(4), alternatives: intPtr(-1)}

	if err := generate(&out, generateTestConfig(), flags); err != nil {
		t.Fatalf("generate returned error: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Coupons generated for", "Individual coupon values:", "Total"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestGenerateSingleCombination(t *testing.T) {
	var out bytes.Buffer
	flags := generateFlags{target: intPtr(1000), coupons: intPtr(4), alternatives: intPtr(5)}

	if err := generate(&out, generateTestConfig(), flags); err != nil {
		t.Fatalf("generate returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Only one unique combination") {
		t.Fatalf("expected single combination notice, got:\n%s", out.String())
	}
}

func TestGenerateRejectsInfeasibleTarget(t *testing.T) {
	var out bytes.Buffer
	flags := generateFlags{target: intPtr(100), coupons: intPtr(4), alternatives: intPtr(-1)}

	if err := generate(&out, generateTestConfig(), flags); err == nil {
		t.Fatalf("expected error for target below the minimum")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no report output on failure")
	}
}

func TestGenerateRejectsTooManyCoupons(t *testing.T) {
	var out bytes.Buffer
	flags := generateFlags{target: intPtr(100_000), coupons: intPtr(51), alternatives: intPtr(-1)}

	if err := generate(&out, generateTestConfig(), flags); err == nil {
		t.Fatalf("expected error when coupons exceed the configured maximum")
	}
}

func parseGlobalFlags(t *testing.T, args ...string) *config.CLIOverrides {
	t.Helper()

	app := kingpin.New("coupon-distributor", "")
	flags := registerGlobalFlags(app)
	if _, err := app.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return flags.overrides()
}

func TestGlobalFlagsOverrides(t *testing.T) {
	o := parseGlobalFlags(t, "--port", "9000", "--seed", "11", "--rate-limit-burst", "7")

	if o.Port == nil || *o.Port != "9000" {
		t.Fatalf("expected port override")
	}
	if o.Seed == nil || *o.Seed != 11 {
		t.Fatalf("expected seed override")
	}
	if o.RateLimitBurst == nil || *o.RateLimitBurst != 7 {
		t.Fatalf("expected burst override")
	}
	if o.DenominationsStr != nil || o.MaxCoupons != nil || o.MaxAlternatives != nil || o.LogLevel != nil || o.RateLimitRPS != nil {
		t.Fatalf("expected unset flags to leave overrides nil: %+v", o)
	}
}

func TestSeedFlagZeroOverridesConfiguredSeed(t *testing.T) {
	if o := parseGlobalFlags(t); o.Seed != nil {
		t.Fatalf("expected omitted --seed to leave the configured seed alone, got %d", *o.Seed)
	}

	o := parseGlobalFlags(t, "--seed", "0")
	if o.Seed == nil || *o.Seed != 0 {
		t.Fatalf("expected explicit --seed 0 to be forwarded")
	}

	t.Setenv("SEED", "99")
	cfg, err := config.Load(o)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Seed != 0 {
		t.Fatalf("expected --seed 0 to override SEED, got %d", cfg.Seed)
	}
}
