package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRecordsSurroundedByProse(t *testing.T) {
	raw := `Here you go: [{"clause":"Late fee","risk":"High","explanation":"x"}] thanks`
	risks := DecodeRisks(raw)
	require.Len(t, risks, 1)
	assert.Equal(t, "Late fee", risks[0].Clause)
	assert.Equal(t, "High", risks[0].Risk)
	assert.Equal(t, "x", risks[0].Explanation)
}

func TestExtractRecordsFencedJSON(t *testing.T) {
	raw := "```json\n[{\"term\":\"Lien\",\"definition\":\"a claim\"}]\n```"
	entries := DecodeGlossary(raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "Lien", entries[0].Term)
	assert.Equal(t, "a claim", entries[0].Definition)
}

func TestExtractRecordsNeverRaises(t *testing.T) {
	inputs := []string{
		"",
		"no json here",
		"[",
		"]",
		"][",
		"{\"clause\":\"object not array\"}",
		"[1, 2, 3]",
		"[{\"a\": {\"deeply\": \"nested\"}}]",
		"\x00\xff garbage",
	}
	for _, in := range inputs {
		records := ExtractRecords(in)
		assert.NotNil(t, records, "input %q", in)
	}
}

func TestExtractRecordsDropsNonMappings(t *testing.T) {
	raw := `[{"clause":"a"}, "loose string", 42, {"clause":"b"}]`
	records := ExtractRecords(raw)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0]["clause"])
	assert.Equal(t, "b", records[1]["clause"])
}

func TestExtractRecordsCoercesValues(t *testing.T) {
	raw := `[{"clause": 12, "risk": true, "explanation": null}]`
	risks := DecodeRisks(raw)
	require.Len(t, risks, 1)
	assert.Equal(t, "12", risks[0].Clause)
	assert.Equal(t, "true", risks[0].Risk)
	assert.Equal(t, "", risks[0].Explanation)
}

func TestDecodeRisksCapped(t *testing.T) {
	raw := "["
	for i := 0; i < 20; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"clause":"c%d","risk":"Low","explanation":"e"}`, i)
	}
	raw += "]"

	risks := DecodeRisks(raw)
	require.Len(t, risks, MaxRisks)
	assert.Equal(t, "c0", risks[0].Clause)
	assert.Equal(t, "c5", risks[5].Clause)
}

func TestDecodeGlossaryCapped(t *testing.T) {
	raw := "["
	for i := 0; i < 25; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"term":"t%d","definition":"d"}`, i)
	}
	raw += "]"

	entries := DecodeGlossary(raw)
	assert.Len(t, entries, MaxGlossary)
}

func TestDecodeRisksAbsentKeysDefaultEmpty(t *testing.T) {
	risks := DecodeRisks(`[{"clause":"only clause"}]`)
	require.Len(t, risks, 1)
	assert.Equal(t, "only clause", risks[0].Clause)
	assert.Equal(t, "", risks[0].Risk)
	assert.Equal(t, "", risks[0].Explanation)
}
