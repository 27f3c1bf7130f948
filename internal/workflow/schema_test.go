package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_Accepts(t *testing.T) {
	raw := readTestdata(t, "sample_workflow.json")
	assert.NoError(t, ValidateJSON(raw))
}

func TestValidateJSON_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{
			"unknown node type",
			`{"nodes": [{"id": "n", "type": "teleport", "position": {"x": 0, "y": 0}, "data": {}}], "edges": []}`,
		},
		{
			"trigger missing triggerType",
			`{"nodes": [{"id": "n", "type": "trigger", "position": {"x": 0, "y": 0}, "data": {"label": "x"}}], "edges": []}`,
		},
		{
			"trigger type outside vocabulary",
			`{"nodes": [{"id": "n", "type": "trigger", "position": {"x": 0, "y": 0}, "data": {"triggerType": "solar_flare"}}], "edges": []}`,
		},
		{
			"negative delay",
			`{"nodes": [{"id": "n", "type": "delay", "position": {"x": 0, "y": 0}, "data": {"delayHours": -3}}], "edges": []}`,
		},
		{
			"edge missing target",
			`{"nodes": [], "edges": [{"id": "e", "source": "a"}]}`,
		},
		{
			"nodes not a list",
			`{"nodes": {}, "edges": []}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tc.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema violation")
		})
	}
}

func TestValidateJSON_EmptyWorkflow(t *testing.T) {
	assert.NoError(t, ValidateJSON([]byte(`{"nodes": [], "edges": []}`)))
}
