package environment_variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadFromLookup_TypedFields(t *testing.T) {
	ev := Defaults()
	ev.LoadFromLookup(lookupFrom(map[string]string{
		"HTTP_PORT":                "9090",
		"JWT_SECRET":               "s3cret",
		"UPSTREAM_TIMEOUT_SECONDS": "45",
		"ALLOW_GUEST":              "false",
		"ALLOWED_CORS_HOSTS":       "http://a.test, http://b.test,,",
	}))

	assert.Equal(t, "9090", ev.HTTP_PORT)
	assert.Equal(t, []byte("s3cret"), ev.JWT_SECRET)
	assert.Equal(t, 45, ev.UPSTREAM_TIMEOUT_SECONDS)
	assert.False(t, ev.ALLOW_GUEST)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, ev.ALLOWED_CORS_HOSTS)
}

func TestLoadFromLookup_KeepsDefaultsOnMissingOrInvalid(t *testing.T) {
	ev := Defaults()
	ev.LoadFromLookup(lookupFrom(map[string]string{
		"UPSTREAM_TIMEOUT_SECONDS": "soon",
		"ALLOW_GUEST":              "maybe",
	}))

	assert.Equal(t, "https://openrouter.ai/api/v1", ev.OPENROUTER_BASE_URL)
	assert.Equal(t, 0, ev.UPSTREAM_TIMEOUT_SECONDS)
	assert.True(t, ev.ALLOW_GUEST)
}
