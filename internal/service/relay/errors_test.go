package relay

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestUpstreamErrorKeepsProviderMessage(t *testing.T) {
	root := errors.New("Invalid API Key")
	err := newUpstreamError("groq", errors.Wrap(root, "groq chat completion"))

	assert.Equal(t, "Invalid API Key", err.Error())
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.True(t, errors.Is(err, root))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}
