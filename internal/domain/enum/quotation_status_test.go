package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationStatus_CanTransitionTo(t *testing.T) {
	all := []QuotationStatus{
		QuotationStatusDraft,
		QuotationStatusSent,
		QuotationStatusAccepted,
		QuotationStatusRejected,
		QuotationStatusExpired,
	}

	for _, from := range all {
		for _, to := range all {
			want := from == to || from == QuotationStatusDraft || from == QuotationStatusSent
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, QuotationStatusDraft.CanTransitionTo(QuotationStatus(9)))
}

func TestParseQuotationStatus(t *testing.T) {
	s, err := ParseQuotationStatus(" Accepted ")
	require.NoError(t, err)
	assert.Equal(t, QuotationStatusAccepted, s)

	_, err = ParseQuotationStatus("pending")
	assert.Error(t, err)
}

func TestQuotationStatus_JSON(t *testing.T) {
	data, err := json.Marshal(QuotationStatusSent)
	require.NoError(t, err)
	assert.JSONEq(t, `"sent"`, string(data))

	var s QuotationStatus
	require.NoError(t, json.Unmarshal([]byte(`"expired"`), &s))
	assert.Equal(t, QuotationStatusExpired, s)

	require.NoError(t, json.Unmarshal([]byte(`3`), &s))
	assert.Equal(t, QuotationStatusRejected, s)

	assert.Error(t, json.Unmarshal([]byte(`"archived"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`12`), &s))
}

func TestQuotationStatus_String(t *testing.T) {
	assert.Equal(t, "draft", QuotationStatusDraft.String())
	assert.Equal(t, "unknown", QuotationStatus(-1).String())
}
