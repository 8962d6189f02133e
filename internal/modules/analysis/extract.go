package analysis

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/clausewise/core/internal/models"
)

// ExtractRecords pulls a JSON array of string-keyed records out of raw
// model output. It is a total function: fenced output, surrounding
// commentary, malformed items and non-array payloads all collapse to a
// (possibly empty) slice, never an error.
func ExtractRecords(raw string) []map[string]string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if records, ok := decodeRecordArray(cleaned); ok {
		return records
	}

	// Models often wrap the array in prose; take the outermost bracket span.
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start >= 0 && end > start {
		if records, ok := decodeRecordArray(cleaned[start : end+1]); ok {
			return records
		}
	}

	return []map[string]string{}
}

func decodeRecordArray(text string) ([]map[string]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, false
	}

	records := make([]map[string]string, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		record := make(map[string]string, len(obj))
		for k, v := range obj {
			record[k] = coerceString(v)
		}
		records = append(records, record)
	}
	return records, true
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// DecodeRisks maps extracted records onto Risk values, capped at
// MaxRisks. Absent keys become empty strings.
func DecodeRisks(raw string) []models.Risk {
	records := ExtractRecords(raw)
	if len(records) > MaxRisks {
		records = records[:MaxRisks]
	}
	risks := make([]models.Risk, 0, len(records))
	for _, r := range records {
		risks = append(risks, models.Risk{
			Clause:      r["clause"],
			Risk:        r["risk"],
			Explanation: r["explanation"],
		})
	}
	return risks
}

// DecodeGlossary maps extracted records onto GlossaryEntry values,
// capped at MaxGlossary.
func DecodeGlossary(raw string) []models.GlossaryEntry {
	records := ExtractRecords(raw)
	if len(records) > MaxGlossary {
		records = records[:MaxGlossary]
	}
	entries := make([]models.GlossaryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, models.GlossaryEntry{
			Term:       r["term"],
			Definition: r["definition"],
		})
	}
	return entries
}
