package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/arran/pkg/api"
)

func TestArgsSetAndMerge(t *testing.T) {
	var a api.Args
	b := a.Set("email", "x@y.com")
	assert.Nil(t, a)
	assert.Equal(t, "x@y.com", b.GetString("email", ""))

	c := b.Merge(api.Args{"email": "z@y.com", "seats": 3})
	assert.Equal(t, "x@y.com", b.GetString("email", ""))
	assert.Equal(t, "z@y.com", c.GetString("email", ""))
	assert.Equal(t, 3, c.GetInt("seats", 0))
}

func TestArgsGetters(t *testing.T) {
	a := api.Args{
		"name":   "arran",
		"count":  float64(7),
		"active": true,
	}

	assert.Equal(t, "arran", a.GetString("name", "none"))
	assert.Equal(t, "none", a.GetString("missing", "none"))
	assert.Equal(t, 7, a.GetInt("count", 0))
	assert.Equal(t, 9, a.GetInt("name", 9))
	assert.True(t, a.GetBool("active", false))
	assert.False(t, a.GetBool("missing", false))
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, api.FlowID("my-flow"), api.SanitizeID(api.FlowID("My Flow")))
	assert.Equal(t, api.FlowID("a1.bc"), api.SanitizeID(api.FlowID("a1.b/c")))
	assert.Equal(t, api.FlowID(""), api.SanitizeID(api.FlowID("@#$%")))
}
