package tenantctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTenantID(t *testing.T) {
	_, ok := TenantID(context.Background())
	assert.False(t, ok)

	_, ok = TenantID(WithTenantID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := TenantID(WithTenantID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
