// Package advisory estimates the economics of growing a crop. When a
// prediction API key is configured it asks the external generative
// model; otherwise, or on any upstream failure, it falls back to a
// deterministic heuristic so the endpoint always answers.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

const apiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-pro:generateContent"

// Request describes the plot to analyze.
type Request struct {
	Crop       string  `json:"crop"`
	Area       float64 `json:"area"` // acres
	SoilType   string  `json:"soil_type"`
	Irrigation string  `json:"irrigation"`
	Region     string  `json:"region"`
}

// Prediction is the analysis returned to the client. Amounts are in
// INR, yields in kg.
type Prediction struct {
	InitialInvestment string   `json:"initialInvestment"`
	YieldPerAcre      string   `json:"yieldPerAcre"`
	MarketRate        string   `json:"marketRate"`
	ExpectedProfit    string   `json:"expectedProfit"`
	SuitabilityScore  int      `json:"suitabilityScore"`
	Challenges        []string `json:"challenges"`
	Recommendations   []string `json:"recommendations"`
}

// Client talks to the prediction API. Zero value is unusable; use New.
type Client struct {
	apiKey string
	http   *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Predict returns the model's analysis, or the heuristic estimate
// when no key is configured or the upstream call fails.
func (c *Client) Predict(ctx context.Context, req Request) Prediction {
	if c.apiKey == "" {
		return fallback(req)
	}
	p, err := c.callModel(ctx, req)
	if err != nil {
		log.Printf("advisory: model call failed, using fallback: %v", err)
		return fallback(req)
	}
	return p
}

func (c *Client) callModel(ctx context.Context, req Request) (Prediction, error) {
	prompt := fmt.Sprintf(`As an agricultural expert, analyze the farming potential for:

- Crop: %s
- Land Area: %g acres
- Soil Type: %s
- Irrigation Type: %s
- Region: %s

Return your analysis in structured JSON only, with these keys:
initialInvestment, yieldPerAcre, marketRate, expectedProfit,
suitabilityScore, challenges (array), recommendations (array).`,
		req.Crop, req.Area, req.SoilType, req.Irrigation, req.Region)

	body, err := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return Prediction{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiEndpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return Prediction{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Prediction{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("prediction api status %d", resp.StatusCode)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Prediction{}, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return Prediction{}, fmt.Errorf("prediction api returned no candidates")
	}
	return parsePrediction(out.Candidates[0].Content.Parts[0].Text)
}

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// parsePrediction accepts either bare JSON or JSON embedded in prose,
// which is how the model usually answers.
func parsePrediction(text string) (Prediction, error) {
	var p Prediction
	if err := json.Unmarshal([]byte(text), &p); err == nil {
		return p, nil
	}
	m := jsonBlock.FindString(text)
	if m == "" {
		return Prediction{}, fmt.Errorf("no JSON in model response")
	}
	if err := json.Unmarshal([]byte(m), &p); err != nil {
		return Prediction{}, fmt.Errorf("parse model response: %w", err)
	}
	return p, nil
}

// fallback mirrors the heuristic used when no model is reachable:
// flat per-acre investment and profit with a midrange yield estimate.
func fallback(req Request) Prediction {
	area := req.Area
	if area <= 0 {
		area = 1
	}
	return Prediction{
		InitialInvestment: strconv.Itoa(int(area * 15000)),
		YieldPerAcre:      "1500",
		MarketRate:        "40",
		ExpectedProfit:    strconv.Itoa(int(area * 25000)),
		SuitabilityScore:  7,
		Challenges: []string{
			"Weather unpredictability",
			"Pest management",
			"Water availability",
		},
		Recommendations: []string{
			"Use organic fertilizers",
			"Implement crop rotation",
			"Install drip irrigation",
			"Monitor soil health regularly",
		},
	}
}
