package service

import (
	"encoding/json"
	"strings"
	"testing"

	appErr "hwbot/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, raw string) interface{} {
	t.Helper()
	var body interface{}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&body))
	return body
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode appErr.ErrorCode
		wantLen  int
	}{
		{"one homework", `{"homeworks":[{"homework_name":"proj1","status":"approved"}],"current_date":1000}`, appErr.Success, 1},
		{"empty list", `{"homeworks":[],"current_date":1000}`, appErr.Success, 0},
		{"not an object", `[{"homework_name":"proj1"}]`, appErr.TypeMismatch, 0},
		{"missing homeworks", `{"current_date":1000}`, appErr.MissingKey, 0},
		{"homeworks is object", `{"homeworks":{"homework_name":"proj1"}}`, appErr.TypeMismatch, 0},
		{"homeworks is string", `{"homeworks":"proj1"}`, appErr.TypeMismatch, 0},
		{"homeworks is null", `{"homeworks":null}`, appErr.TypeMismatch, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			homeworks, err := CheckResponse(decodeBody(t, tt.body))
			assert.Equal(t, tt.wantCode, appErr.GetCode(err))
			assert.Len(t, homeworks, tt.wantLen)
		})
	}
}

func TestParseStatusKnownVerdicts(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"approved", `Изменился статус проверки работы "proj1". Работа проверена: ревьюеру всё понравилось. Ура!`},
		{"reviewing", `Изменился статус проверки работы "proj1". Работа взята на проверку ревьюером.`},
		{"rejected", `Изменился статус проверки работы "proj1". Работа проверена: у ревьюера есть замечания.`},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got, err := ParseStatus(map[string]interface{}{
				"homework_name": "proj1",
				"status":        tt.status,
				"reviewer":      "someone",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatusFaults(t *testing.T) {
	tests := []struct {
		name     string
		item     interface{}
		wantCode appErr.ErrorCode
	}{
		{"missing name", map[string]interface{}{"status": "approved"}, appErr.MissingKey},
		{"missing status", map[string]interface{}{"homework_name": "proj1"}, appErr.MissingKey},
		{"empty record", map[string]interface{}{}, appErr.MissingKey},
		{"unknown status", map[string]interface{}{"homework_name": "proj1", "status": "pending"}, appErr.UnknownStatus},
		{"status not string", map[string]interface{}{"homework_name": "proj1", "status": json.Number("1")}, appErr.TypeMismatch},
		{"item not object", "proj1", appErr.TypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ParseStatus(tt.item)
			require.Error(t, err)
			assert.Empty(t, msg)
			assert.Equal(t, tt.wantCode, appErr.GetCode(err))
		})
	}
}

func TestUnknownStatusMentionsStatus(t *testing.T) {
	_, err := ParseStatus(map[string]interface{}{"homework_name": "proj1", "status": "pending"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending")
}

func TestExtractCursor(t *testing.T) {
	tests := []struct {
		name   string
		body   interface{}
		want   int64
		wantOK bool
	}{
		{"json number", map[string]interface{}{"current_date": json.Number("1000")}, 1000, true},
		{"float", map[string]interface{}{"current_date": float64(1000)}, 1000, true},
		{"numeric string", map[string]interface{}{"current_date": "1000"}, 0, false},
		{"fractional", map[string]interface{}{"current_date": json.Number("10.5")}, 0, false},
		{"missing", map[string]interface{}{}, 0, false},
		{"null", map[string]interface{}{"current_date": nil}, 0, false},
		{"not an object", []interface{}{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCursor(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
