package main

import (
	"testing"

	"github.com/qyinm/gemtui/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialFilterDefaults(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	var opts options
	opts.minPrice, _ = cmd.Flags().GetInt("min")
	opts.maxPrice, _ = cmd.Flags().GetInt("max")
	opts.category, _ = cmd.Flags().GetString("category")

	f, err := initialFilter(opts)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultRange, f.Range)
	assert.Equal(t, types.CategoryAll, f.Category)
}

func TestInitialFilterRejectsBadInput(t *testing.T) {
	cases := []options{
		{minPrice: 100000, maxPrice: 5000},
		{minPrice: -1, maxPrice: 5000},
		{minPrice: 0, maxPrice: 600000},
		{minPrice: 0, maxPrice: 1000, category: "tiara"},
	}
	for _, opts := range cases {
		_, err := initialFilter(opts)
		assert.Error(t, err, "%+v", opts)
	}

	f, err := initialFilter(options{minPrice: 0, maxPrice: 500000, category: "Bracelet"})
	require.NoError(t, err)
	assert.Equal(t, types.CategoryBracelet, f.Category)
}
