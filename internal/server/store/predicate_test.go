package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicate_ZeroValueMatchesAll(t *testing.T) {
	var p Predicate
	assert.True(t, p.IsEmpty())
	assert.Empty(t, p.Conditions())
}

func TestPredicate_BuildsInOrder(t *testing.T) {
	p := Where("approved", true).And("city", "london").And("age", 30)

	assert.Equal(t, []Condition{
		{Field: "approved", Op: OpEqual, Value: true},
		{Field: "city", Op: OpEqual, Value: "london"},
		{Field: "age", Op: OpEqual, Value: 30},
	}, p.Conditions())
	assert.True(t, p.Has("city"))
	assert.False(t, p.Has("gender"))
}

func TestPredicate_AndDoesNotAlias(t *testing.T) {
	base := Where("approved", true)
	a := base.And("city", "london")
	b := base.And("city", "paris")

	assert.Len(t, base.Conditions(), 1)
	assert.Equal(t, "london", a.Conditions()[1].Value)
	assert.Equal(t, "paris", b.Conditions()[1].Value)
}

func TestPredicate_ConditionsIsACopy(t *testing.T) {
	p := Where("a", 1)
	c := p.Conditions()
	c[0].Value = 2
	assert.Equal(t, 1, p.Conditions()[0].Value)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "=", OpEqual.String())
	assert.Equal(t, "?", Op(42).String())
}
