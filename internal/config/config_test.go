package config

import "testing"

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ENGBEE_ADDR", ":9999")
	t.Setenv("ENGBEE_DAILY_LIMIT", "50")
	t.Setenv("ENGBEE_FALLBACK_LESSON", "true")
	t.Setenv("ENGBEE_LLM_PROVIDER", "mock")

	cfg := FromEnv()
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DailyLimit != 50 {
		t.Errorf("DailyLimit = %d", cfg.DailyLimit)
	}
	if !cfg.FallbackEnabled {
		t.Error("FallbackEnabled not set")
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("LLM.Provider = %q", cfg.LLM.Provider)
	}
}

func TestFromEnv_IgnoresBadValues(t *testing.T) {
	t.Setenv("ENGBEE_DAILY_LIMIT", "not-a-number")
	cfg := FromEnv()
	if cfg.DailyLimit != Default().DailyLimit {
		t.Errorf("DailyLimit = %d, want default", cfg.DailyLimit)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := cfg
	bad.DailyLimit = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero daily limit accepted")
	}

	bad = cfg
	bad.Addr = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty addr accepted")
	}
}
