package ui

import "testing"

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLDCASE_THEME", "GREEN")
	if got := DetectTheme(); got.Name != "green" {
		t.Fatalf("expected green theme when COLDCASE_THEME=GREEN, got %s", got.Name)
	}

	t.Setenv("COLDCASE_THEME", "")
	if got := DetectTheme(); got.Name != "amber" {
		t.Fatalf("expected amber theme by default, got %s", got.Name)
	}
}

func TestForKind(t *testing.T) {
	s := NewStyles(AmberTheme())
	if s.ForKind("error").GetForeground() != Destructive {
		t.Errorf("error lines should use the destructive color")
	}
	if s.ForKind("whatever").GetForeground() != s.Info.GetForeground() {
		t.Errorf("unknown kinds should render as info")
	}
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(AmberTheme())
	if got := s.RenderDivider(4); got != "────" {
		t.Errorf("expected a 4-cell divider, got %q", got)
	}
	if got := s.RenderDivider(0); got != "─" {
		t.Errorf("expected a 1-cell divider for width 0, got %q", got)
	}
}
