package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpecValue_JSON(t *testing.T) {
	specs := map[string]SpecValue{
		"Weight":    StringSpec("250g"),
		"Ports":     NumberSpec(3),
		"Wireless":  BoolSpec(true),
		"Bluetooth": StringSpec("5.2"),
	}

	raw, err := json.Marshal(specs)
	require.NoError(t, err)
	require.JSONEq(t, `{"Weight":"250g","Ports":3,"Wireless":true,"Bluetooth":"5.2"}`, string(raw))

	var back map[string]SpecValue
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, specs, back)
}

func TestSpecValue_RejectsComposite(t *testing.T) {
	var v SpecValue
	require.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
	require.Error(t, json.Unmarshal([]byte(`null`), &v))
}

func TestSpecValue_String(t *testing.T) {
	require.Equal(t, "250g", StringSpec("250g").String())
	require.Equal(t, "2.5", NumberSpec(2.5).String())
	require.Equal(t, "false", BoolSpec(false).String())
}
