package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTextQuery_EscapesLiteral(t *testing.T) {
	q, err := CompileTextQuery("a.b(c)", false)
	require.NoError(t, err)

	loc := q.re.FindStringIndex("xxa.b(c)yy")
	require.NotNil(t, loc)
	assert.Equal(t, []int{2, 8}, loc)

	assert.Nil(t, q.re.FindStringIndex("axbycz"), "literal dot must not act as a wildcard")
}

func TestCompileRegexQuery_UsesPatternDirectly(t *testing.T) {
	q, err := CompileRegexQuery(`a.b`, false)
	require.NoError(t, err)

	assert.NotNil(t, q.re.FindStringIndex("axb"))
}

func TestCompileQuery_IgnoreCase(t *testing.T) {
	q, err := CompileTextQuery("abc", true)
	require.NoError(t, err)
	assert.NotNil(t, q.re.FindStringIndex("ABC"))
}

func TestCompileQuery_InvalidPattern(t *testing.T) {
	_, err := CompileRegexQuery("(unclosed", false)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestQuery_SameAs(t *testing.T) {
	q, err := CompileTextQuery("abc", false)
	require.NoError(t, err)

	assert.True(t, q.sameAs("abc", false))
	assert.False(t, q.sameAs("abc", true), "flag change is a different query")
	assert.False(t, q.sameAs("abd", false), "source change is a different query")

	var nilQuery *Query
	assert.False(t, nilQuery.sameAs("abc", false))
}
