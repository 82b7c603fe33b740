package predictions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu2job-backend/models"
)

func rec(id uint, cgpa, degree, major, skills, role string, date time.Time) models.Prediction {
	return models.Prediction{
		ID:     id,
		UserID: 1,
		Cgpa:   cgpa,
		Degree: degree,
		Major:  major,
		Skills: skills,
		Role:   role,
		Date:   date,
	}
}

func TestFilterValid_DropsPlaceholders(t *testing.T) {
	t.Parallel()

	now := time.Now()
	records := []models.Prediction{
		rec(1, "8.5", "B.Tech", "CS", "Python", "Data Analyst", now),
		rec(2, "8.5", "B.Tech", "CS", "Python", "N/A", now),
		rec(3, "8.5", "B.Tech", "CS", "Python", "", now),
		rec(4, "8.5", "B.Tech", "CS", "Python", "  ", now),
	}

	valid := FilterValid(records)
	require.Len(t, valid, 1)
	assert.EqualValues(t, 1, valid[0].ID)
}

func TestLatestPerFingerprint(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t1.Add(2 * time.Hour)

	records := []models.Prediction{
		rec(1, "8.5", "B.Tech", "CS", "Python,SQL", "Data Analyst", t1),
		rec(2, "8.5", "B.Tech", "CS", "Python,SQL", "Data Analyst", t2),
		rec(3, "7.0", "B.Sc", "IT", "Java", "Backend Dev", t3),
	}

	latest := LatestPerFingerprint(records)
	require.Len(t, latest, 2)

	byID := map[uint]bool{}
	for _, r := range latest {
		byID[r.ID] = true
	}
	assert.True(t, byID[2], "fingerprint F1 must keep its t2 row")
	assert.True(t, byID[3], "fingerprint F2 must keep its only row")
}

func TestLatestPerFingerprint_TieBreakHighestID(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	records := []models.Prediction{
		rec(10, "8.5", "B.Tech", "CS", "Python,SQL", "Data Analyst", now),
		rec(11, "8.5", "B.Tech", "CS", "Python,SQL", "Backend Dev", now),
	}

	latest := LatestPerFingerprint(records)
	require.Len(t, latest, 1)
	assert.EqualValues(t, 11, latest[0].ID)

	// order of input must not change the winner
	latest = LatestPerFingerprint([]models.Prediction{records[1], records[0]})
	require.Len(t, latest, 1)
	assert.EqualValues(t, 11, latest[0].ID)
}

func TestRoleDistribution_ZeroCellsPresent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	records := []models.Prediction{
		rec(1, "8.5", "B.Tech", "CS", "Python", "Data Analyst", now),
		rec(2, "8.5", "B.Tech", "CS", "Python", "Backend Dev", now),
		rec(3, "7.0", "B.Sc", "IT", "Java", "Backend Dev", now),
	}

	matrix := RoleDistribution(records)
	require.Len(t, matrix, 2)

	assert.Equal(t, 1, matrix["CS"]["Data Analyst"])
	assert.Equal(t, 1, matrix["CS"]["Backend Dev"])
	assert.Equal(t, 1, matrix["IT"]["Backend Dev"])

	// zero cell materialized, not omitted
	val, ok := matrix["IT"]["Data Analyst"]
	assert.True(t, ok)
	assert.Equal(t, 0, val)
}

func TestSkillFrequency(t *testing.T) {
	t.Parallel()

	now := time.Now()
	records := []models.Prediction{
		rec(1, "8.5", "B.Tech", "CS", "Python, SQL", "Data Analyst", now),
		rec(2, "7.0", "B.Sc", "IT", "Python,Java,", "Backend Dev", now),
		rec(3, "6.0", "B.E", "ME", "", "Design Engineer", now),
	}

	counts := SkillFrequency(records)
	assert.Equal(t, 2, counts["Python"])
	assert.Equal(t, 1, counts["SQL"])
	assert.Equal(t, 1, counts["Java"])
	_, hasBlank := counts[""]
	assert.False(t, hasBlank)
}
