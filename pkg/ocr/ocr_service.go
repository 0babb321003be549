package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"grocery-price-tracker/domain"
)

const extractionPrompt = `Analyze this receipt image and extract the following information as a single JSON object:

{
    "supermarket_name": "Name of the store/supermarket",
    "purchase_date": "YYYY-MM-DD format if visible, null otherwise",
    "currency": "Currency code like EGP, USD, EUR if visible",
    "items": [
        {
            "name": "Item name",
            "brand": "Brand name if visible, null otherwise",
            "price": 0.00,
            "quantity": 1.0,
            "unit": "kg, L, pcs, etc if visible, null otherwise"
        }
    ],
    "total_amount": 0.00,
    "raw_text": "Full extracted text from the receipt"
}

For weighted items sold per kg/lb/L the "price" field must be the amount actually paid,
not the per-unit price, and "quantity" must be the weight purchased (e.g. 0.5 for half a kg).
The sum of all item prices should approximately equal the receipt total.
Prices are plain numbers without currency symbols. Use null for anything not visible.
Respond ONLY with the JSON object, no explanations and no markdown formatting.`

type (
	// Extractor turns raw receipt image bytes into a best-effort structured
	// receipt. Implementations must degrade rather than fail on output they
	// cannot fully parse.
	Extractor interface {
		Extract(ctx context.Context, imageData []byte, mimeType string) (domain.ScanReceiptResponse, error)
	}

	GeminiConfig struct {
		APIKey string
		Model  string
	}

	geminiExtractor struct {
		config     GeminiConfig
		httpClient *http.Client
	}
)

func NewGeminiExtractor(config GeminiConfig) Extractor {
	return &geminiExtractor{
		config:     config,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *geminiExtractor) Extract(ctx context.Context, imageData []byte, mimeType string) (domain.ScanReceiptResponse, error) {
	if g.config.APIKey == "" {
		return domain.ScanReceiptResponse{}, domain.ErrExtractorNotConfigured
	}

	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "image/jpeg"
	}

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.config.Model, g.config.APIKey,
	)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"text": extractionPrompt,
					},
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(imageData),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.ScanReceiptResponse{}, fmt.Errorf("%w: %v", domain.ErrExtractorFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.ScanReceiptResponse{}, fmt.Errorf("%w: %s - %s", domain.ErrExtractorFailed, resp.Status, string(body))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return domain.ScanReceiptResponse{}, fmt.Errorf("%w: %v", domain.ErrExtractorFailed, err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return domain.ScanReceiptResponse{}, domain.ErrExtractorFailed
	}

	return parseReceiptText(geminiResp.Candidates[0].Content.Parts[0].Text), nil
}
