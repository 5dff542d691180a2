package mystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, "envelope", kindOf[envelope]())
	assert.Equal(t, "string", kindOf[string]())
}
