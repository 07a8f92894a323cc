package database

import (
	"testing"

	modelspkg "teampot/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesSubscriptionScope(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.SubscriptionScope); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include SubscriptionScope")
}
