package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUserIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Real-Ip", "93.184.216.34")
	ip, err := ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "93.184.216.34", ip)

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "127.0.0.1:54321"
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "localhost", ip)

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "not-an-ip"
	_, err = ReadUserIP(req)
	assert.Error(t, err)
}
