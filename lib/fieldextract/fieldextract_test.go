package fieldextract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScanLines(t *testing.T) {
	text := "Some page header\n" +
		"Bias Rating: LEFT\n" +
		"Factual Reporting:\n" +
		"\n" +
		"HIGH\n" +
		"Footer text\n"

	got := ScanLines(text, []Label{
		{Key: "bias", Text: "Bias Rating"},
		{Key: "factual", Text: "Factual Reporting"},
	})
	want := map[string]string{
		"bias":    "LEFT",
		"factual": "HIGH",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestScanLinesFirstMatchWins(t *testing.T) {
	text := "Bias Rating: LEFT\nBias Rating: RIGHT\n"
	got := ScanLines(text, []Label{{Key: "bias", Text: "Bias Rating"}})
	if got["bias"] != "LEFT" {
		t.Fatalf("expected first match to win, got %q", got["bias"])
	}
}

func TestScanLinesReject(t *testing.T) {
	text := "MBFC Credibility Rating: HIGH CREDIBILITY\n" +
		"Credibility: something else\n"

	got := ScanLines(text, []Label{
		{Key: "credibility", Text: "Credibility", Reject: "MBFC"},
	})
	if got["credibility"] != "something else" {
		t.Fatalf("reject filter failed, got %q", got["credibility"])
	}
}

func TestScanLinesMissingLabel(t *testing.T) {
	got := ScanLines("nothing relevant here", []Label{{Key: "bias", Text: "Bias Rating"}})
	if _, ok := got["bias"]; ok {
		t.Fatal("missing label should stay unset")
	}
}

func TestScanNumber(t *testing.T) {
	text := "Overall Score\n" +
		"Reliability: 44.97\n" +
		"Bias: -1.41\n" +
		"Bias: Middle\n"

	if got := ScanNumber(text, "Bias", true); got != "-1.41" {
		t.Errorf("signed bias score = %q, want -1.41", got)
	}
	if got := ScanNumber(text, "Reliability", false); got != "44.97" {
		t.Errorf("reliability score = %q, want 44.97", got)
	}
	// a prose value is not a score
	if got := ScanNumber("Bias: Middle", "Bias", true); got != "" {
		t.Errorf("prose value extracted as number: %q", got)
	}
	// unsigned scan skips negative values
	if got := ScanNumber("Reliability: -3.0", "Reliability", false); got != "" {
		t.Errorf("negative value passed unsigned scan: %q", got)
	}
}

func TestScanNumberValueOnNextLine(t *testing.T) {
	// markup like <b>Bias:</b> -1.41 flattens to separate lines
	text := "Bias:\n-1.41\nReliability:\n44.97\n"

	if got := ScanNumber(text, "Bias", true); got != "-1.41" {
		t.Errorf("bias score = %q, want -1.41", got)
	}
	if got := ScanNumber(text, "Reliability", false); got != "44.97" {
		t.Errorf("reliability score = %q, want 44.97", got)
	}
}

func TestLabelValue(t *testing.T) {
	block := "Bias: Middle Reliability: Reliable, Analysis/Fact Reporting"

	if got := LabelValue(block, "Bias", "Reliability"); got != "Middle" {
		t.Errorf("bias label = %q, want Middle", got)
	}
	if got := LabelValue(block, "Reliability"); got != "Reliable, Analysis/Fact Reporting" {
		t.Errorf("reliability label = %q", got)
	}
	// numeric values are rejected, those belong to the score section
	if got := LabelValue("Bias: -1.48", "Bias"); got != "" {
		t.Errorf("numeric value extracted as label: %q", got)
	}
	if got := LabelValue("no labels here", "Bias"); got != "" {
		t.Errorf("absent label produced %q", got)
	}
}
