package clinic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vetdesk/posapi/internal/domain"
)

// The clinic backend is inconsistent about response envelopes: variant lists
// arrive as a bare array or wrapped under "items", "Items", "data", or
// "data.items" depending on the endpoint revision, ids arrive as strings or
// numbers, and stock is reported as either "totalStock" or "currentStock".
// Everything is normalized here, once; the rest of the code only ever sees
// domain.Variant.

// flexString accepts a JSON string or number and stores it as a string
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(string(b))
	return nil
}

type wireVariant struct {
	ID               flexString      `json:"id"`
	ProductID        flexString      `json:"productId"`
	ProductName      string          `json:"productName"`
	VariantName      string          `json:"variantName"`
	CurrentSellPrice decimal.Decimal `json:"currentSellPrice"`
	TotalStock       *int            `json:"totalStock"`
	CurrentStock     *int            `json:"currentStock"`
	Barcode          string          `json:"barcode"`
}

func (w wireVariant) toDomain() domain.Variant {
	stock := 0
	switch {
	case w.TotalStock != nil:
		stock = *w.TotalStock
	case w.CurrentStock != nil:
		stock = *w.CurrentStock
	}
	return domain.Variant{
		ID:          string(w.ID),
		ProductID:   string(w.ProductID),
		ProductName: w.ProductName,
		VariantName: w.VariantName,
		SellPrice:   w.CurrentSellPrice,
		Stock:       stock,
		Barcode:     w.Barcode,
	}
}

// decodeVariantList parses a variant search response regardless of envelope
func decodeVariantList(body []byte) ([]domain.Variant, error) {
	payload := listPayload(body)
	if payload == nil {
		return nil, fmt.Errorf("no variant list found in response")
	}

	var wire []wireVariant
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode variant list: %w", err)
	}

	variants := make([]domain.Variant, 0, len(wire))
	for _, w := range wire {
		variants = append(variants, w.toDomain())
	}
	return variants, nil
}

// listPayload digs the item array out of whichever envelope the backend used
func listPayload(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil
	}
	for _, key := range []string{"items", "Items", "data", "Data"} {
		if inner, ok := env[key]; ok {
			if payload := listPayload(inner); payload != nil {
				return payload
			}
		}
	}
	return nil
}

// decodeSale parses a sale-creation response, tolerating a "data" wrapper
func decodeSale(body []byte) (*Sale, error) {
	var env struct {
		Data *Sale `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil && env.Data.ID != "" {
		return env.Data, nil
	}

	var sale Sale
	if err := json.Unmarshal(body, &sale); err != nil {
		return nil, fmt.Errorf("failed to decode sale response: %w", err)
	}
	return &sale, nil
}

// decodeErrorMessage pulls a human-readable message out of an error payload
func decodeErrorMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return strings.TrimSpace(string(body))
}
