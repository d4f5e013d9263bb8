package scoring

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// maxSkillEditDistance tolerates minor model-side spelling drift
// ("Kubernets" for "Kubernetes") without accepting unrelated skills.
const maxSkillEditDistance = 2

var skillFolder = cases.Fold()

// ReconcileSkills maps model-reported matched skills back onto the
// candidate's own skill list. Exact case-folded matches win; otherwise a
// skill within a small edit distance of a listed skill resolves to the
// candidate's canonical spelling. Reported skills the candidate never
// listed are dropped. Order follows the candidate's list and each skill
// appears at most once.
func ReconcileSkills(reported, listed []string) []string {
	if len(reported) == 0 || len(listed) == 0 {
		return nil
	}

	matched := make(map[int]struct{}, len(reported))
	for _, raw := range reported {
		folded := skillFolder.String(strings.TrimSpace(raw))
		if folded == "" {
			continue
		}

		bestIdx := -1
		bestDist := maxSkillEditDistance + 1
		for i, skill := range listed {
			d := levenshtein.ComputeDistance(folded, skillFolder.String(skill))
			if d < bestDist {
				bestDist = d
				bestIdx = i
				if d == 0 {
					break
				}
			}
		}
		if bestIdx >= 0 && bestDist <= maxSkillEditDistance {
			matched[bestIdx] = struct{}{}
		}
	}

	if len(matched) == 0 {
		return nil
	}
	out := make([]string, 0, len(matched))
	for i, skill := range listed {
		if _, ok := matched[i]; ok {
			out = append(out, skill)
		}
	}
	return out
}
