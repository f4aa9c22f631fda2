package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorLine(t *testing.T) {
	err := fmt.Errorf("parse feeds.yaml: %w", errors.New("yaml: unmarshal errors:\n  line 2: cannot unmarshal\n  line 3: cannot unmarshal"))
	assert.Equal(t, "ERROR: parse feeds.yaml: yaml: unmarshal errors: line 2: cannot unmarshal line 3: cannot unmarshal", errorLine(err))
	assert.Equal(t, "ERROR: plain", errorLine(errors.New("plain")))
}
