package scheme

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
  {
    "id": 1,
    "name": "Widow Pension",
    "eligibility": {
      "age_range": [18, 60],
      "gender": ["Female"],
      "caste": ["all"],
      "income_limit": 50000,
      "occupation": ["Any"],
      "location": []
    },
    "step2_question": {"question": "Are you a widow?", "expected_answer": "Yes"}
  },
  {
    "id": "scholarship-sc",
    "name": "Post-matric Scholarship",
    "eligibility": {
      "caste": ["SC", "ST"],
      "income_limit": [10000, 250000],
      "occupation": ["student"],
      "conditions": ["applicant.hk_quota == 'yes'"]
    },
    "step2_question": {"question": "", "expected_answer": "yes"}
  },
  {"id": 3, "name": "Open Scheme"}
]`

func TestParseRemovesSentinels(t *testing.T) {
	schemes, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, schemes, 3)

	widow := schemes[0]
	assert.Equal(t, ID("1"), widow.ID)
	require.NotNil(t, widow.Eligibility.AgeRange)
	assert.Equal(t, Range{Min: 18, Max: 60}, *widow.Eligibility.AgeRange)
	assert.Equal(t, Set{"female"}, widow.Eligibility.Gender)
	assert.Nil(t, widow.Eligibility.Caste, "all collapses to unconstrained")
	assert.Nil(t, widow.Eligibility.Occupation, "any collapses to unconstrained")
	assert.Nil(t, widow.Eligibility.Location, "empty list is unconstrained")
	require.NotNil(t, widow.Eligibility.IncomeLimit)
	assert.True(t, widow.Eligibility.IncomeLimit.IsCeiling())
	require.NotNil(t, widow.Step2)
	assert.Equal(t, "Yes", widow.Step2.ExpectedAnswer)

	scholarship := schemes[1]
	assert.Equal(t, ID("scholarship-sc"), scholarship.ID)
	assert.Equal(t, Set{"sc", "st"}, scholarship.Eligibility.Caste)
	require.NotNil(t, scholarship.Eligibility.IncomeLimit)
	assert.False(t, scholarship.Eligibility.IncomeLimit.IsCeiling())
	assert.Equal(t, []string{"applicant.hk_quota == 'yes'"}, scholarship.Eligibility.Conditions)
	assert.Nil(t, scholarship.Step2, "question without text is dropped")

	open := schemes[2]
	assert.Equal(t, Criteria{}, open.Eligibility)
}

func TestSetAllows(t *testing.T) {
	var unconstrained Set
	assert.True(t, unconstrained.Allows("anything"))

	set := newSet([]string{"Farmer", "LABOURER"}, SentinelAny)
	assert.True(t, set.Allows("farmer"))
	assert.True(t, set.Allows("Labourer"))
	assert.False(t, set.Allows("student"))

	assert.Nil(t, newSet([]string{"farmer", "ANY"}, SentinelAny))
	assert.Equal(t, Set{"any"}, newSet([]string{"any"}, SentinelAll), "sentinels are axis specific")
}

func TestIncomeLimitAllows(t *testing.T) {
	ceiling := Ceiling(50000)
	assert.True(t, ceiling.Allows(0))
	assert.True(t, ceiling.Allows(50000))
	assert.False(t, ceiling.Allows(50001))

	between := Between(10000, 20000)
	assert.False(t, between.Allows(9999))
	assert.True(t, between.Allows(10000))
	assert.True(t, between.Allows(20000))
	assert.False(t, between.Allows(20001))
}

func TestIncomeLimitAllowsIsExactForLargeIncomes(t *testing.T) {
	limit := Ceiling(9007199254740992)
	assert.True(t, limit.Allows(9007199254740992))
	assert.False(t, limit.Allows(9007199254740993))

	between := Between(0, 9007199254740992)
	assert.False(t, between.Allows(9007199254740993))
	assert.True(t, Ceiling(math.Inf(1)).Allows(math.MaxInt64))
}

func TestParseAcceptsFreeFormLinks(t *testing.T) {
	for _, link := range []string{"sevasindhu.karnataka.gov.in", "https://pmaymis.gov.in", "see district office"} {
		schemes, err := Parse([]byte(`[{"id": 1, "link": "` + link + `", "eligibility": {}}]`))
		require.NoError(t, err, link)
		assert.Equal(t, link, schemes[0].Link)
	}
}

func TestCriteriaRoundTrip(t *testing.T) {
	schemes, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	data, err := json.Marshal(schemes)
	require.NoError(t, err)

	var decoded []Scheme
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, schemes, decoded)
}

func TestParseRejectsMalformedRecords(t *testing.T) {
	cases := map[string]string{
		"not json":              `{`,
		"wrong type":            `[{"id": 1, "eligibility": {"gender": "female"}}]`,
		"short age range":       `[{"id": 1, "eligibility": {"age_range": [18]}}]`,
		"inverted age range":    `[{"id": 1, "eligibility": {"age_range": [60, 18]}}]`,
		"income triple":         `[{"id": 1, "eligibility": {"income_limit": [1, 2, 3]}}]`,
		"inverted income range": `[{"id": 1, "eligibility": {"income_limit": [500, 100]}}]`,
		"missing id":            `[{"name": "nameless"}]`,
		"empty condition":       `[{"id": 1, "eligibility": {"conditions": [""]}}]`,
		"duplicate id":          `[{"id": 1}, {"id": "1"}]`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			var malformed *MalformedError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestFileCatalogLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schemes.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	catalog := NewFileCatalog(path)
	require.NoError(t, catalog.Check())

	schemes, err := catalog.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, schemes, 3)

	t.Run("reads fresh data on each load", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`[{"id": 9}]`), 0o600))
		schemes, err := catalog.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, schemes, 1)
		assert.Equal(t, ID("9"), schemes[0].ID)
	})

	t.Run("missing file", func(t *testing.T) {
		missing := NewFileCatalog(filepath.Join(dir, "nope.json"))
		_, err := missing.Load(context.Background())
		assert.True(t, errors.Is(err, ErrCatalogNotFound))
		assert.ErrorIs(t, missing.Check(), ErrCatalogNotFound)
	})

	t.Run("malformed file carries path", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`[{"id": 1, "eligibility": {"age_range": "x"}}]`), 0o600))
		_, err := NewFileCatalog(bad).Load(context.Background())
		var malformed *MalformedError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, bad, malformed.Path)
	})

	t.Run("directory is not a catalog", func(t *testing.T) {
		assert.Error(t, NewFileCatalog(dir).Check())
	})
}

func TestStep2Choices(t *testing.T) {
	q := &Step2Question{Question: "Do you own land?", ExpectedAnswer: "no"}
	assert.Equal(t, []string{"Yes", "No"}, q.Choices())

	q.Options = []string{"Owner", "Tenant"}
	assert.Equal(t, []string{"Owner", "Tenant"}, q.Choices())
}

func TestBundledCatalog(t *testing.T) {
	schemes, err := NewFileCatalog(filepath.Join("..", "..", "schemes.json")).Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, schemes)

	for _, s := range schemes {
		assert.NotEmpty(t, s.Name, "scheme %s", s.ID)
	}
}
