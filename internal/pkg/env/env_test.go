package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedFile(t *testing.T) {
	t.Setenv("PUSH_TOPIC", "from-os")
	Env = map[string]string{"PUSH_TOPIC": "from-file"}
	t.Cleanup(func() { Env = nil })

	assert.Equal(t, "from-file", GetEnv("PUSH_TOPIC", "global"))
}

func TestGetEnvFallbacks(t *testing.T) {
	Env = nil
	t.Setenv("JOB_QUEUE_WORKERS", "4")
	t.Setenv("EXPORT_ARCHIVE_ENABLED", "true")
	t.Setenv("HOME_CACHE_TTL", "45s")
	t.Setenv("CACHE_PORT", "not-a-number")

	assert.Equal(t, 4, GetInt("JOB_QUEUE_WORKERS", 2))
	assert.Equal(t, 6379, GetInt("CACHE_PORT", 6379))
	assert.True(t, GetBool("EXPORT_ARCHIVE_ENABLED", false))
	assert.False(t, GetBool("MISSING_FLAG", false))
	assert.Equal(t, 45*time.Second, GetDuration("HOME_CACHE_TTL", time.Minute))
	assert.Equal(t, "fallback", GetEnv("SURELY_NOT_SET_KEY", "fallback"))
}

func TestIsDev(t *testing.T) {
	Env = map[string]string{"APP_ENV": "dev"}
	t.Cleanup(func() { Env = nil })
	assert.True(t, IsDev())

	Env = map[string]string{"APP_ENV": "prod"}
	assert.False(t, IsDev())
}
