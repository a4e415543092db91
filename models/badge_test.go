package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaUnmarshalFlatObject(t *testing.T) {
	var c Criteria
	require.NoError(t, json.Unmarshal([]byte(`{"total_points": 500, "trivia_wins": 3}`), &c))
	require.Len(t, c, 2)

	kinds := map[CriterionKind]int{}
	for _, crit := range c {
		kinds[crit.Kind] = crit.Threshold
	}
	assert.Equal(t, 500, kinds[CriterionTotalPoints])
	assert.Equal(t, 3, kinds[CriterionTriviaWins])
}

func TestCriteriaUnmarshalLevelTag(t *testing.T) {
	var c Criteria
	require.NoError(t, json.Unmarshal([]byte(`{"level": "advanced"}`), &c))
	require.Len(t, c, 1)
	assert.Equal(t, CriterionLevel, c[0].Kind)
	assert.Equal(t, "advanced", c[0].Level)
}

func TestCriteriaUnknownKeyRejected(t *testing.T) {
	var c Criteria
	err := json.Unmarshal([]byte(`{"streak_days": 7}`), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "streak_days")
}

func TestCriteriaRejectsWrongValueTypes(t *testing.T) {
	var c Criteria
	assert.Error(t, json.Unmarshal([]byte(`{"total_points": "lots"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"level": 3}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"trivia_wins": -1}`), &c))
}

func TestCriteriaMarshalRoundTrip(t *testing.T) {
	in := Criteria{
		{Kind: CriterionTotalPoints, Threshold: 100},
		{Kind: CriterionLevel, Level: "beginner"},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Criteria
	require.NoError(t, json.Unmarshal(data, &out))
	assert.ElementsMatch(t, in, out)
}

func TestTriviaID(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "20250310", TriviaID(date))
}
