package predictions

import (
	"strings"

	"edu2job-backend/models"
)

// History reconstruction is pure slice/map work over a ledger snapshot; it
// runs on every read and keeps no state.

// FilterValid drops rows whose role is empty or the "N/A" placeholder left
// by a scoring run that returned no candidates.
func FilterValid(records []models.Prediction) []models.Prediction {
	valid := make([]models.Prediction, 0, len(records))
	for _, rec := range records {
		role := strings.TrimSpace(rec.Role)
		if role == "" || role == "N/A" {
			continue
		}
		valid = append(valid, rec)
	}
	return valid
}

// LatestPerFingerprint keeps, for each distinct (cgpa, degree, major, skills)
// tuple, the row with the newest date. When both fingerprint and date
// collide the highest id wins, so the result is deterministic. Output order
// follows first appearance of each fingerprint in the input.
func LatestPerFingerprint(records []models.Prediction) []models.Prediction {
	latest := make(map[string]models.Prediction, len(records))
	order := make([]string, 0, len(records))

	for _, rec := range records {
		key := rec.Fingerprint()
		cur, seen := latest[key]
		if !seen {
			order = append(order, key)
			latest[key] = rec
			continue
		}
		if rec.Date.After(cur.Date) || (rec.Date.Equal(cur.Date) && rec.ID > cur.ID) {
			latest[key] = rec
		}
	}

	out := make([]models.Prediction, 0, len(order))
	for _, key := range order {
		out = append(out, latest[key])
	}
	return out
}

// RoleDistribution counts rows per (major, role) over the full filtered set.
// Every major/role combination present in the set appears in the matrix,
// zero cells included.
func RoleDistribution(records []models.Prediction) map[string]map[string]int {
	majors := make([]string, 0)
	roles := make([]string, 0)
	seenMajor := make(map[string]bool)
	seenRole := make(map[string]bool)
	for _, rec := range records {
		if !seenMajor[rec.Major] {
			seenMajor[rec.Major] = true
			majors = append(majors, rec.Major)
		}
		if !seenRole[rec.Role] {
			seenRole[rec.Role] = true
			roles = append(roles, rec.Role)
		}
	}

	matrix := make(map[string]map[string]int, len(majors))
	for _, major := range majors {
		row := make(map[string]int, len(roles))
		for _, role := range roles {
			row[role] = 0
		}
		matrix[major] = row
	}
	for _, rec := range records {
		matrix[rec.Major][rec.Role]++
	}
	return matrix
}

// SkillFrequency counts skill tokens across the deduplicated set. Skills are
// split on commas and trimmed; blank tokens are skipped.
func SkillFrequency(records []models.Prediction) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.Skills == "" {
			continue
		}
		for _, skill := range strings.Split(rec.Skills, ",") {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			counts[skill]++
		}
	}
	return counts
}
