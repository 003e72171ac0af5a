package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityUnmarshalJSON(t *testing.T) {
	cases := map[string]Priority{
		`2`:        PriorityHigh,
		`"urgent"`: PriorityUrgent,
		`"Normal"`: PriorityNormal,
		`null`:     0,
		`0`:        0,
	}
	for raw, want := range cases {
		var p Priority
		require.NoError(t, json.Unmarshal([]byte(raw), &p), raw)
		assert.Equal(t, want, p, raw)
	}

	var p Priority
	assert.Error(t, json.Unmarshal([]byte(`4`), &p))
	assert.Error(t, json.Unmarshal([]byte(`"someday"`), &p))
}

func TestPriorityNullInsideSubjectList(t *testing.T) {
	var payload struct {
		Subjects []struct {
			Name     string   `json:"name"`
			Priority Priority `json:"priority"`
		} `json:"subjects"`
	}
	err := json.Unmarshal([]byte(`{"subjects":[{"name":"A","priority":null},{"name":"B","priority":3}]}`), &payload)
	require.NoError(t, err)
	require.Len(t, payload.Subjects, 2)
	assert.Zero(t, payload.Subjects[0].Priority)
	assert.Equal(t, PriorityUrgent, payload.Subjects[1].Priority)
}
