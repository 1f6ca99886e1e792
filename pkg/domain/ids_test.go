package domain

import (
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "dealeraudit/pkg/domain-errors"
)

// The parse constructors guard every trust boundary: ids must be valid,
// non-empty, non-nil UUIDs before they reach a store or a service.
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCriterionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAuditID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil uuid", func(t *testing.T) {
		_, err := ParseInstallationID("00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts canonical uuid", func(t *testing.T) {
		id, err := ParseCategoryID("550e8400-e29b-41d4-a716-446655440000")
		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("round-trips through String", func(t *testing.T) {
		id := NewDealershipID()
		parsed, err := ParseDealershipID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

func TestID_TypesAreDistinct(t *testing.T) {
	// Identical UUID bytes under different typed ids must stay distinct
	// at the type level; conversion is always explicit.
	u := uuid.New()
	category := CategoryID(u)
	block := BlockID(u)
	assert.Equal(t, category.String(), block.String())
	assert.IsType(t, CategoryID{}, category)
	assert.IsType(t, BlockID{}, block)
}

func TestID_JSONRoundTrip(t *testing.T) {
	id := NewStandardID()

	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+id.String()+`"`, string(raw))

	var decoded StandardID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded)
}

func TestID_JSONRejectsGarbage(t *testing.T) {
	var id AreaID
	err := json.Unmarshal([]byte(`"definitely-not-a-uuid"`), &id)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestID_SQLRoundTrip(t *testing.T) {
	id := NewInstallationTypeID()

	v, err := id.Value()
	require.NoError(t, err)
	s, ok := v.(string)
	require.True(t, ok)
	assert.Equal(t, id.String(), s)

	t.Run("scan from string", func(t *testing.T) {
		var got InstallationTypeID
		require.NoError(t, got.Scan(s))
		assert.Equal(t, id, got)
	})

	t.Run("scan from bytes", func(t *testing.T) {
		var got InstallationTypeID
		require.NoError(t, got.Scan([]byte(s)))
		assert.Equal(t, id, got)
	})

	t.Run("scan from nil yields nil id", func(t *testing.T) {
		var got InstallationTypeID
		require.NoError(t, got.Scan(nil))
		assert.True(t, got.IsNil())
	})

	t.Run("scan rejects unsupported type", func(t *testing.T) {
		var got InstallationTypeID
		assert.Error(t, got.Scan(42))
	})
}

func TestID_IsNil(t *testing.T) {
	var zero ResponsableID
	assert.True(t, zero.IsNil())
	assert.False(t, NewResponsableID().IsNil())
}

var _ driver.Valuer = CriterionID{}
