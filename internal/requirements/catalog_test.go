package requirements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ContainsBothRoleSets(t *testing.T) {
	c := Default()
	assert.Equal(t, CurrentVersion, c.Version)

	roles := c.Roles()
	assert.Len(t, roles, 14)
	assert.Contains(t, roles, "Data Science")
	assert.Contains(t, roles, "Data Scientist")
	assert.Contains(t, roles, "Mobile Development")
	assert.Contains(t, roles, "Machine Learning Engineer")
	assert.IsIncreasing(t, roles)
}

func TestLookup_Aliases(t *testing.T) {
	c := Default()

	tests := []struct {
		input string
		want  string
	}{
		{"Software Engineering", "Software Engineering"},
		{"software   engineer", "Software Engineering"},
		{"ML Engineer", "Machine Learning Engineer"},
		{"sre", "DevOps Engineer"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, ok := c.Lookup(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, r.Name)
		})
	}

	_, ok := c.Lookup("Astronaut")
	assert.False(t, ok)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c := Default()
	r, ok := c.Lookup("Data Scientist")
	require.True(t, ok)
	r.Skills["Python"] = 1

	assert.Equal(t, 9, c.Skills("Data Scientist")["Python"])
}

func TestSkills_UnknownRole(t *testing.T) {
	assert.Empty(t, Default().Skills("nope"))
}

func TestNew_CustomTable(t *testing.T) {
	c := New(7, Role{Name: "Data Scientist", Skills: map[string]int{"Python": 9, "SQL": 8, "Statistics": 9}})
	assert.Equal(t, 7, c.Version)
	assert.Equal(t, []string{"Data Scientist"}, c.Roles())
	assert.Equal(t, 8, c.Skills("data scientist")["SQL"])
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Lookup("Data Scientist")
	assert.False(t, ok)
	assert.Nil(t, c.Roles())
}

func TestDefault_LevelsWithinRange(t *testing.T) {
	c := Default()
	for _, name := range c.Roles() {
		for skill, lvl := range c.Skills(name) {
			assert.True(t, lvl >= 0 && lvl <= 10, "%s/%s=%d", name, skill, lvl)
		}
	}
}
