package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeList(t *testing.T) {
	assert.Equal(t, []string{}, DecodeList(""))
	assert.Equal(t, []string{"a"}, DecodeList("a"))
	assert.Equal(t, []string{"a", "", "b"}, DecodeList("a,,b"))
}

func TestGetInstanceID(t *testing.T) {
	t.Setenv("HOSTNAME", "app-a-7d9f")

	t.Setenv("env", "dev")
	assert.Equal(t, "fallback", GetInstanceID("fallback"))

	t.Setenv("env", "k8s")
	assert.Equal(t, "k8s", GetEnv())
	assert.Equal(t, "app-a-7d9f", GetInstanceID("fallback"))

	t.Setenv("HOSTNAME", "")
	assert.Equal(t, "fallback", GetInstanceID("fallback"))
}
