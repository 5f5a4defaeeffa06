package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedSchemas(t *testing.T) {
	sv, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{SchemaCatalogArtifact, SchemaSimilarityMatrix, SchemaWatchlistRecord}, sv.GetAvailableSchemas())
}

func TestSchemaValidator_CatalogArtifact(t *testing.T) {
	sv, err := Default()
	require.NoError(t, err)

	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"id field", `[{"id": 1, "title": "Avatar"}]`, true},
		{"movie_id field", `[{"movie_id": 19995, "title": "Avatar"}]`, true},
		{"empty catalog", `[]`, true},
		{"missing title", `[{"id": 1}]`, false},
		{"missing id", `[{"title": "Avatar"}]`, false},
		{"string id", `[{"id": "1", "title": "Avatar"}]`, false},
		{"object instead of array", `{"title": "Avatar"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sv.ValidateBytes(SchemaCatalogArtifact, []byte(tt.doc))
			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.NoError(t, result.Err())
			} else {
				assert.Error(t, result.Err())
			}
		})
	}
}

func TestSchemaValidator_WatchlistRecord(t *testing.T) {
	sv, err := Default()
	require.NoError(t, err)

	valid := sv.ValidateBytes(SchemaWatchlistRecord, []byte(`[{"name":"Heat","poster":null,"added_date":"2024-05-01","watched":false,"trailer_url":null}]`))
	assert.True(t, valid.Valid)

	invalid := sv.ValidateBytes(SchemaWatchlistRecord, []byte(`[{"name":"Heat","added_date":"May 1","watched":false}]`))
	assert.False(t, invalid.Valid)
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	sv := NewSchemaValidator()

	result := sv.ValidateStruct("missing", []int{1})
	assert.False(t, result.Valid)
	assert.Equal(t, "SCHEMA_NOT_FOUND", result.Errors[0].Code)
}
