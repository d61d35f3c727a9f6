package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanBeAnalyzed(t *testing.T) {
	base := func() *Document {
		return &Document{
			ID:               7,
			Name:             "Contrato",
			ProcessingStatus: StatusIndexed,
		}
	}

	t.Run("indexed active named document qualifies", func(t *testing.T) {
		assert.True(t, base().CanBeAnalyzed())
	})

	t.Run("unpersisted document does not qualify", func(t *testing.T) {
		doc := base()
		doc.ID = 0
		assert.False(t, doc.CanBeAnalyzed())
	})

	t.Run("blank name does not qualify", func(t *testing.T) {
		doc := base()
		doc.Name = "   "
		assert.False(t, doc.CanBeAnalyzed())
	})

	t.Run("deleted document does not qualify", func(t *testing.T) {
		doc := base()
		require.NoError(t, doc.SoftDelete("ana"))
		assert.False(t, doc.CanBeAnalyzed())
	})

	t.Run("unindexed document does not qualify", func(t *testing.T) {
		for _, status := range []ProcessingStatus{StatusUploaded, StatusProcessing, StatusFailed} {
			doc := base()
			doc.ProcessingStatus = status
			assert.False(t, doc.CanBeAnalyzed(), string(status))
		}
	})
}

func TestSoftDeleteAndRestore(t *testing.T) {
	doc := &Document{ID: 1, Name: "Contrato"}

	require.NoError(t, doc.SoftDelete("ana"))
	assert.True(t, doc.IsDeleted)
	assert.Equal(t, "ana", doc.DeletedBy)
	require.NotNil(t, doc.DeletedAt)

	assert.ErrorIs(t, doc.SoftDelete("ana"), ErrAlreadyDeleted)

	require.NoError(t, doc.Restore())
	assert.False(t, doc.IsDeleted)
	assert.Nil(t, doc.DeletedAt)
	assert.Empty(t, doc.DeletedBy)

	assert.ErrorIs(t, doc.Restore(), ErrNotDeleted)
}
