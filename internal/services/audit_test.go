package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"donpollo_back_end/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAuditorWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	a := NewLogAuditor(zerolog.New(&buf))

	a.Record(context.Background(), models.AuditLog{
		Actor:      "admin",
		Action:     models.ActionProductDelete,
		Resource:   models.ResourceProduct,
		ResourceID: "3",
		Success:    true,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "product.delete", entry["action"])
	assert.Equal(t, "3", entry["resource_id"])
	assert.NotEmpty(t, entry["audit_id"])
}

func TestLogAuditorFailureIsWarn(t *testing.T) {
	var buf bytes.Buffer
	a := NewLogAuditor(zerolog.New(&buf))

	a.Record(context.Background(), models.AuditLog{Action: models.ActionLoginFailed, Success: false, ErrorMsg: "identifiants invalides"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
}

func TestStampKeepsExistingValues(t *testing.T) {
	first := stamp(models.AuditLog{})
	assert.False(t, first.Timestamp.IsZero())

	again := stamp(first)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.Timestamp, again.Timestamp)
}
