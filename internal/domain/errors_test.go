package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError(ErrCodeValidation, "bad input")
	assert.Equal(t, "[VALIDATION_ERROR] bad input", err.Error())

	cause := errors.New("permission denied")
	wrapped := NewDomainErrorWithCause(ErrCodeDiscovery, "walk failed", cause)
	assert.Equal(t, "[DISCOVERY_ERROR] walk failed: permission denied", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestDomainError_IsMatchesSentinelWithCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("run: %w", NewDomainErrorWithCause(ErrResetFailed.Code, ErrResetFailed.Message, cause))

	assert.ErrorIs(t, err, ErrResetFailed)
	assert.NotErrorIs(t, err, ErrDocsRootNotDir)
}

func TestIndexRecord_IsChunk(t *testing.T) {
	assert.True(t, IndexRecord{Metadata: SearchMetadata{Type: RecordTypeSectionChunk}}.IsChunk())
	assert.False(t, IndexRecord{Metadata: SearchMetadata{Type: RecordTypeSection}}.IsChunk())
}
