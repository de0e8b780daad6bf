package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type operation struct {
	Parameters []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"parameters"`
	Responses map[string]json.RawMessage `json:"responses"`
}

func readDoc(t *testing.T) map[string]map[string]operation {
	t.Helper()
	var doc struct {
		Paths map[string]map[string]operation `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	return doc.Paths
}

func TestDoc_ParametersAreDescribed(t *testing.T) {
	for path, ops := range readDoc(t) {
		for method, op := range ops {
			for _, p := range op.Parameters {
				assert.NotEmpty(t, p.Description, "%s %s parameter %s", method, path, p.Name)
			}
		}
	}
}

func TestDoc_RegisterResponses(t *testing.T) {
	op, ok := readDoc(t)["/v1/auth/register"]["post"]
	require.True(t, ok)
	for _, code := range []string{"201", "400", "409", "422", "500"} {
		assert.Contains(t, op.Responses, code)
	}
}
