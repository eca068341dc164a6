package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFieldType_RoundTrip(t *testing.T) {
	for ft := TypeText; ft <= TypeJSON; ft++ {
		parsed, err := ParseFieldType(ft.String())
		require.NoError(t, err, ft.String())
		assert.Equal(t, ft, parsed)
	}
}

func TestParseFieldType_Unknown(t *testing.T) {
	_, err := ParseFieldType("blob")
	assert.Error(t, err)
}

func TestParseFieldType_EmptyDefaultsToText(t *testing.T) {
	ft, err := ParseFieldType("")
	require.NoError(t, err)
	assert.Equal(t, TypeText, ft)
}

func TestFieldType_Classifier(t *testing.T) {
	tests := []struct {
		ft      FieldType
		text    bool
		lookup  bool
		lov     bool
		integer bool
	}{
		{TypeText, true, false, false, false},
		{TypeTextMultiline, true, false, false, false},
		{TypeHTML, true, false, false, false},
		{TypeEmail, true, false, false, false},
		{TypeURL, true, false, false, false},
		{TypeInteger, false, false, false, true},
		{TypeDecimal, false, false, false, false},
		{TypeBoolean, false, false, false, false},
		{TypeDate, false, false, false, false},
		{TypeLOV, false, true, true, true},
		{TypeList, false, false, true, false},
		{TypeImage, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.ft.String(), func(t *testing.T) {
			assert.Equal(t, tt.text, tt.ft.IsText())
			assert.Equal(t, tt.lookup, tt.ft.IsLookup())
			assert.Equal(t, tt.lov, tt.ft.IsListOfValues())
			assert.Equal(t, tt.integer, tt.ft.IsInteger())
		})
	}

	assert.True(t, TypeList.IsList())
	assert.True(t, TypeMoney.IsNumeric())
}

func TestFieldType_YAML(t *testing.T) {
	var f Field
	err := yaml.Unmarshal([]byte("id: total\ntype: money\n"), &f)
	require.NoError(t, err)
	assert.Equal(t, TypeMoney, f.Type)

	err = yaml.Unmarshal([]byte("id: x\ntype: nope\n"), &f)
	assert.Error(t, err)
}
