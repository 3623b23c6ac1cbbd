package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/reliefsync/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestParseRoster(t *testing.T) {
	cases := []struct {
		name  string
		field *string
		want  domain.Roster
	}{
		{"null", nil, nil},
		{"empty string", strPtr(""), nil},
		{"legacy placeholder", strPtr("None"), nil},
		{"single", strPtr("Ana"), domain.Roster{"Ana"}},
		{"joined", strPtr("Ana, Ben"), domain.Roster{"Ana", "Ben"}},
		{"loose separators", strPtr("Ana,Ben ,  ,Cy"), domain.Roster{"Ana", "Ben", "Cy"}},
		{"duplicates collapse", strPtr("Ana, Ben, Ana"), domain.Roster{"Ana", "Ben"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ParseRoster(tc.field))
		})
	}
}

func TestRoster_WithWithout(t *testing.T) {
	r := domain.Roster{"Ana"}.With("Ben").With("Ana").With("")
	assert.Equal(t, domain.Roster{"Ana", "Ben"}, r)

	r = domain.Roster{"Ana", "Ben", "Cy"}.Without("Ben")
	assert.Equal(t, domain.Roster{"Ana", "Cy"}, r)

	// exact token match only
	r = domain.Roster{"Ana", "Anna"}.Without("Ann")
	assert.Equal(t, domain.Roster{"Ana", "Anna"}, r)
}

func TestRoster_WithDoesNotAlias(t *testing.T) {
	base := make(domain.Roster, 1, 4)
	base[0] = "Ana"
	a := base.With("Ben")
	b := base.With("Cy")
	assert.Equal(t, domain.Roster{"Ana", "Ben"}, a)
	assert.Equal(t, domain.Roster{"Ana", "Cy"}, b)
}

func TestRoster_Field(t *testing.T) {
	assert.Nil(t, domain.Roster{}.Field())
	assert.Nil(t, domain.Roster{"Ana"}.Without("Ana").Field())

	field := domain.Roster{"V1", "V2"}.Field()
	require.NotNil(t, field)
	assert.Equal(t, "V1, V2", *field)
	assert.Equal(t, domain.Roster{"V1", "V2"}, domain.ParseRoster(field))
}

func TestSameField(t *testing.T) {
	assert.True(t, domain.SameField(nil, nil))
	assert.False(t, domain.SameField(nil, strPtr("")))
	assert.True(t, domain.SameField(strPtr("a"), strPtr("a")))
	assert.False(t, domain.SameField(strPtr("a, b"), strPtr("b, a")))
}

func TestTaskKind_Allows(t *testing.T) {
	assert.True(t, domain.TaskKindEmergency.Allows(domain.TaskStatusInProgress))
	assert.False(t, domain.TaskKindEmergency.Allows(domain.TaskStatusResolved))
	assert.True(t, domain.TaskKindSOS.Allows(domain.TaskStatusActive))
	assert.False(t, domain.TaskKindSOS.Allows(domain.TaskStatusCompleted))
}

func TestValidRosterName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Ana", true},
		{"Ana Lopez", true},
		{"O'Neil", true},
		{"Smith, John", false},
		{"A,B", false},
		{" Ana", false},
		{"Ana ", false},
		{"\tAna", false},
		{"None", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ValidRosterName(tc.name))
		})
	}
}

func TestRoster_ValidNamesRoundTrip(t *testing.T) {
	for _, name := range []string{"Ana Lopez", "O'Neil", "Nonel", "Ben-Ami"} {
		field := domain.Roster{"Ben"}.With(name).Field()
		parsed := domain.ParseRoster(field)
		assert.True(t, parsed.Contains(name), "%q lost in %q", name, *field)
		assert.True(t, parsed.Contains("Ben"))
		assert.Len(t, parsed, 2)
	}
}

func TestRoster_InvalidNamesDoNotRoundTrip(t *testing.T) {
	for _, name := range []string{"Smith, John", "None", " Ana", "A,B"} {
		require.False(t, domain.ValidRosterName(name))
		parsed := domain.ParseRoster(domain.Roster{"Ben"}.With(name).Field())
		assert.False(t, parsed.Contains(name), "%q should not survive the stored field", name)
	}
}
