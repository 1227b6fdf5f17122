package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_IsAlwaysANoOp(t *testing.T) {
	en := &Enricher{}

	result, err := en.Enrich(context.Background(), []string{"screen-1", "task-2"})

	require.NoError(t, err)
	assert.Equal(t, 0, result.EnrichmentsApplied)
	assert.Empty(t, result.UpdatedEntityIDs)
}
