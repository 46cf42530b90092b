package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven/mocks"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(
		mocks.NewMockTool("get_item_detail_info", nil),
		mocks.NewMockTool("open_usage_prediction_page", nil),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"get_item_detail_info", "open_usage_prediction_page"}, r.Names())

	specs := r.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "get_item_detail_info", specs[0].Name)
	assert.Equal(t, "open_usage_prediction_page", specs[1].Name)
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry(
		mocks.NewMockTool("get_item_detail_info", nil),
		mocks.NewMockTool("get_item_detail_info", nil),
	)
	assert.ErrorIs(t, err, domain.ErrDuplicateTool)
}

func TestNewRegistry_EmptyName(t *testing.T) {
	_, err := NewRegistry(mocks.NewMockTool("  ", nil))
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestMustRegistry_PanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		MustRegistry(mocks.NewMockTool("a", nil), mocks.NewMockTool("a", nil))
	})
	assert.NotPanics(t, func() {
		MustRegistry(mocks.NewMockTool("a", nil), mocks.NewMockTool("b", nil))
	})
}

func TestRegistry_Resolve(t *testing.T) {
	tool := mocks.NewMockTool("navigate_to_page", nil)
	r := MustRegistry(tool)

	got, ok := r.Resolve("navigate_to_page")
	require.True(t, ok)
	assert.Same(t, tool, got)

	_, ok = r.Resolve("delete_everything")
	assert.False(t, ok)
}

func TestRegistry_RegisterAfterConstruction(t *testing.T) {
	r := MustRegistry(mocks.NewMockTool("a", nil))

	require.NoError(t, r.Register(mocks.NewMockTool("b", nil)))
	assert.ErrorIs(t, r.Register(mocks.NewMockTool("a", nil)), domain.ErrDuplicateTool)
	assert.Equal(t, []string{"a", "b"}, r.Names())
}
