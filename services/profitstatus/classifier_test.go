package profitstatus

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		expected Status
	}{
		{"Congressional Research Service", "https://crsreports.congress.gov", StatusGovernment},
		{"U.S. Senate Committee on Finance", "https://finance.senate.gov", StatusGovernment},
		{"White House", "https://whitehouse.gov", StatusGovernment},
		{"MIT Technology Review", "https://technologyreview.mit.edu", StatusNonProfit},
		{"ProPublica", "https://propublica.org", StatusNonProfit},
		{"Human Rights Watch", "https://hrw.org", StatusNonProfit},
		{"Brookings Institute", "https://brookings.edu", StatusNonProfit},
		{"Center for Policy Studies", "https://example.org", StatusNonProfit},
		{"Reuters", "https://reuters.com", StatusForProfit},
		{"The Washington Post", "https://washingtonpost.com", StatusForProfit},
		{"Acme Media Network", "https://acme.example", StatusForProfit},
		{"Foobar", "https://foobar.example", StatusUnknown},
		{"", "", StatusUnknown},
	}

	for _, tt := range cases {
		if got := Classify(tt.name, tt.url); got != tt.expected {
			t.Errorf("Classify(%q, %q) = %q, expected %q", tt.name, tt.url, got, tt.expected)
		}
	}
}

func TestClassifyDomainBeatsName(t *testing.T) {
	// the name screams for-profit but the domain is governmental
	if got := Classify("Daily News Wire Corp", "https://press.house.gov"); got != StatusGovernment {
		t.Errorf("expected government, got %q", got)
	}
}

func TestClassifySingleNonprofitKeywordLosesToForprofit(t *testing.T) {
	// one non-profit keyword and one for-profit indicator: for-profit
	// wins under the scoring rules
	if got := Classify("Research Daily", "https://example.com"); got != StatusForProfit {
		t.Errorf("expected for-profit, got %q", got)
	}
}
