package utils

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindProbe struct {
	RegisterID string `json:"registerId" binding:"required"`
	Count      int    `json:"count"`
}

func bindBody(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var p bindProbe
	return c.ShouldBindJSON(&p)
}

func TestFormatBindingError(t *testing.T) {
	err := bindBody(t, `{"count": 2}`)
	require.Error(t, err)
	assert.Equal(t, "Field 'registerId' is required", FormatBindingError(err))

	err = bindBody(t, `{"registerId": "a", "count": "two"}`)
	require.Error(t, err)
	assert.Contains(t, FormatBindingError(err), "should be of type int")

	err = bindBody(t, ``)
	require.Error(t, err)
	assert.Equal(t, "Request body is empty", FormatBindingError(err))

	assert.Empty(t, FormatBindingError(nil))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty(" a "))
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, SplitCSV(" http://a, ,http://b ,"))
	assert.Nil(t, SplitCSV(""))
}
