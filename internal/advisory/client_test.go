package advisory

import (
	"context"
	"testing"
)

func TestPredictFallbackWithoutKey(t *testing.T) {
	c := New("")
	p := c.Predict(context.Background(), Request{Crop: "wheat", Area: 2, SoilType: "loam", Irrigation: "drip"})

	if p.InitialInvestment != "30000" {
		t.Errorf("InitialInvestment = %q, want 30000", p.InitialInvestment)
	}
	if p.ExpectedProfit != "50000" {
		t.Errorf("ExpectedProfit = %q, want 50000", p.ExpectedProfit)
	}
	if len(p.Challenges) == 0 || len(p.Recommendations) == 0 {
		t.Error("fallback should carry challenges and recommendations")
	}
}

func TestFallbackNonPositiveArea(t *testing.T) {
	p := fallback(Request{Crop: "rice", Area: 0})
	if p.InitialInvestment != "15000" {
		t.Errorf("InitialInvestment = %q, want 15000 for defaulted area", p.InitialInvestment)
	}
}

func TestParsePrediction(t *testing.T) {
	bare := `{"initialInvestment":"10000","yieldPerAcre":"1200","marketRate":"35","expectedProfit":"20000","suitabilityScore":8,"challenges":["pests"],"recommendations":["rotate crops"]}`
	p, err := parsePrediction(bare)
	if err != nil {
		t.Fatalf("parsePrediction bare: %v", err)
	}
	if p.SuitabilityScore != 8 {
		t.Errorf("SuitabilityScore = %d, want 8", p.SuitabilityScore)
	}

	embedded := "Here is my analysis:\n```json\n" + bare + "\n```\nGood luck!"
	p, err = parsePrediction(embedded)
	if err != nil {
		t.Fatalf("parsePrediction embedded: %v", err)
	}
	if p.MarketRate != "35" {
		t.Errorf("MarketRate = %q, want 35", p.MarketRate)
	}

	if _, err := parsePrediction("no json here"); err == nil {
		t.Error("expected error for response without JSON")
	}
}
