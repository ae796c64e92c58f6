package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/collections-api/pkg/pointer"
)

func TestVal(t *testing.T) {
	assert.Equal(t, 0, pointer.Val[int](nil))
	assert.Equal(t, 3, pointer.Val(pointer.To(3)))
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "partner", pointer.Fallback(nil, "partner"))
	assert.Equal(t, "override", pointer.Fallback(pointer.To("override"), "partner"))
}

func TestCoalesce(t *testing.T) {
	override := pointer.To("override")
	partner := pointer.To("partner")

	assert.Same(t, override, pointer.Coalesce(override, partner))
	assert.Same(t, partner, pointer.Coalesce(nil, partner))
	assert.Nil(t, pointer.Coalesce[string](nil, nil))
}
