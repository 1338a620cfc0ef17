package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("BOOTCAMPX_LOG_FORMAT", "")
	t.Setenv("LOG_FORMAT", "console")
	assert.Equal(t, "console", First("json", "BOOTCAMPX_LOG_FORMAT", "LOG_FORMAT"))

	t.Setenv("BOOTCAMPX_LOG_FORMAT", " json ")
	assert.Equal(t, "json", First("console", "BOOTCAMPX_LOG_FORMAT", "LOG_FORMAT"))
}

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("BOOTCAMPX_APP_TITLE", "   ")
	assert.Equal(t, "Cashier", Get("BOOTCAMPX_APP_TITLE", "Cashier"))
	assert.Equal(t, "fallback", First("fallback"))
}
