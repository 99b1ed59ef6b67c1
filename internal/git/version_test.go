package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		out  string
		want []int
	}{
		{"git version 2.43.0\n", []int{2, 43, 0}},
		{"git version 1.7.8", []int{1, 7, 8}},
		{"git version 2.39.3 (Apple Git-146)", []int{2, 39, 3}},
	}
	for _, tt := range tests {
		got, err := parseVersion(tt.out)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseVersionFailure(t *testing.T) {
	_, err := parseVersion("not a version")
	assert.Error(t, err)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b []int
		want int
	}{
		{[]int{1, 7, 8}, []int{1, 7, 8}, 0},
		{[]int{1, 7, 7}, []int{1, 7, 8}, -1},
		{[]int{1, 8}, []int{1, 7, 8}, 1},
		{[]int{1, 7}, []int{1, 7, 8}, -1},
		{[]int{2}, []int{1, 7, 8}, 1},
		{[]int{1, 7, 8, 1}, []int{1, 7, 8}, 1},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, compareVersions(tt.a, tt.b), "%v vs %v", tt.a, tt.b)
	}
}

func TestCheckAttrCachedThreshold(t *testing.T) {
	old, err := parseVersion("git version 1.7.7")
	require.NoError(t, err)
	assert.Negative(t, compareVersions(old, checkAttrCachedMin))

	modern, err := parseVersion("git version 2.43.0")
	require.NoError(t, err)
	assert.Positive(t, compareVersions(modern, checkAttrCachedMin))
}
