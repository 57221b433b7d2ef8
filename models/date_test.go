package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "calendar date", input: "2025-03-14", want: "2025-03-14"},
		{name: "timestamp keeps its calendar day", input: "2025-03-14T22:10:00Z", want: "2025-03-14"},
		{name: "offset timestamp", input: "2025-03-14T01:00:00+05:30", want: "2025-03-14"},
		{name: "garbage", input: "14/03/2025", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var p struct {
		Start Date  `json:"startDate"`
		End   *Date `json:"endDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2025-01-06","endDate":null}`), &p))
	assert.Equal(t, NewDate(2025, time.January, 6), p.Start)
	assert.Nil(t, p.End)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"startDate":"2025-01-06","endDate":null}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2025-01-06","endDate":""}`), &p))
	require.NotNil(t, p.End)
	assert.True(t, p.End.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"startDate":20250106}`), &p))
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2024, time.February, 29, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02-29", d.String())

	require.NoError(t, d.Scan([]byte("2024-12-31")))
	assert.Equal(t, "2024-12-31", d.String())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2025, time.July, 4).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-07-04", v)
}
