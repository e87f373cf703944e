package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/arran/pkg/api"
)

func TestFieldSpecValidate(t *testing.T) {
	ok := &api.FieldSpec{
		Type: api.TypeString, Required: true, MinLen: 2, MaxLen: 10,
		Pattern: `^[a-z]+$`, Default: `"abc"`,
	}
	assert.NoError(t, ok.Validate("code"))

	bad := &api.FieldSpec{Type: "datetime"}
	assert.ErrorIs(t, bad.Validate("when"), api.ErrInvalidFieldType)

	bounds := &api.FieldSpec{Type: api.TypeString, MinLen: 5, MaxLen: 2}
	assert.ErrorIs(t, bounds.Validate("name"), api.ErrInvalidLengthBounds)

	length := &api.FieldSpec{Type: api.TypeNumber, MinLen: 1}
	assert.ErrorIs(t, length.Validate("count"), api.ErrLengthNotAllowed)

	pattern := &api.FieldSpec{Type: api.TypeString, Pattern: "("}
	assert.ErrorIs(t, pattern.Validate("name"), api.ErrInvalidPattern)

	def := &api.FieldSpec{Type: api.TypeNumber, Default: `"five"`}
	assert.ErrorIs(t, def.Validate("seats"), api.ErrInvalidDefaultValue)
}

func TestFieldSpecCheck(t *testing.T) {
	spec := &api.FieldSpec{
		Type: api.TypeString, Required: true, MinLen: 3, MaxLen: 8,
		Pattern: `^[a-z]+$`,
	}

	_, ok := spec.Check("code", "abcdef")
	assert.True(t, ok)

	msg, ok := spec.Check("code", nil)
	assert.False(t, ok)
	assert.Contains(t, msg, "required")

	msg, ok = spec.Check("code", "ab")
	assert.False(t, ok)
	assert.Contains(t, msg, "at least 3")

	msg, ok = spec.Check("code", "abcdefghi")
	assert.False(t, ok)
	assert.Contains(t, msg, "at most 8")

	msg, ok = spec.Check("code", "ABC123")
	assert.False(t, ok)
	assert.Contains(t, msg, "invalid format")

	msg, ok = spec.Check("code", 42)
	assert.False(t, ok)
	assert.Contains(t, msg, "must be a string")
}

func TestFieldSpecCheckTypes(t *testing.T) {
	num := &api.FieldSpec{Type: api.TypeNumber}
	_, ok := num.Check("seats", 5)
	assert.True(t, ok)
	_, ok = num.Check("seats", 5.5)
	assert.True(t, ok)
	_, ok = num.Check("seats", "five")
	assert.False(t, ok)

	boolean := &api.FieldSpec{Type: api.TypeBoolean}
	_, ok = boolean.Check("agree", true)
	assert.True(t, ok)
	_, ok = boolean.Check("agree", "yes")
	assert.False(t, ok)

	obj := &api.FieldSpec{Type: api.TypeObject}
	_, ok = obj.Check("address", map[string]any{"city": "Oban"})
	assert.True(t, ok)
	_, ok = obj.Check("address", []any{})
	assert.False(t, ok)

	arr := &api.FieldSpec{Type: api.TypeArray}
	_, ok = arr.Check("tags", []any{"a"})
	assert.True(t, ok)
	_, ok = arr.Check("tags", "a")
	assert.False(t, ok)

	anyType := &api.FieldSpec{Type: api.TypeAny}
	_, ok = anyType.Check("extra", struct{}{})
	assert.True(t, ok)
}

func TestOptionalEmptyValue(t *testing.T) {
	spec := &api.FieldSpec{Type: api.TypeString}
	_, ok := spec.Check("nickname", nil)
	assert.True(t, ok)
	_, ok = spec.Check("nickname", "")
	assert.True(t, ok)
}

func TestDefaultValue(t *testing.T) {
	assert.Equal(t, "basic",
		(&api.FieldSpec{Default: `"basic"`}).DefaultValue())
	assert.Equal(t, float64(5),
		(&api.FieldSpec{Default: "5"}).DefaultValue())
	assert.Equal(t, true,
		(&api.FieldSpec{Default: "true"}).DefaultValue())
	assert.Nil(t, (&api.FieldSpec{}).DefaultValue())
}
