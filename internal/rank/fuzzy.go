package rank

import (
	"strconv"

	"github.com/sahilm/fuzzy"

	"github.com/Paintersrp/rip/internal/snapshot"
)

// NeutralScore is assigned to every entity when the query is empty.
const NeutralScore = 1

// scoreBase lifts fuzzy scores, which turn negative for long targets with
// many unmatched characters, into the positive range so that 0 keeps
// meaning "no match".
const scoreBase = 1000

// Score computes a fuzzy subsequence score of query against target. Matching
// is case-insensitive. The result is 0 when the query characters do not
// appear in order within target, and positive otherwise. Adjacent matches and
// matches at the start of the string or after a separator score higher;
// unmatched characters cost points.
func Score(query, target string) int {
	if query == "" {
		return NeutralScore
	}
	return bestScore(fuzzy.Find(query, []string{target}))
}

// entityStrings exposes an entity's name followed by its port numbers as a
// fuzzy.Source.
type entityStrings snapshot.Entity

func (s entityStrings) String(i int) string {
	if i == 0 {
		return s.Name
	}
	return strconv.Itoa(int(s.Ports[i-1]))
}

func (s entityStrings) Len() int {
	return 1 + len(s.Ports)
}

// scoreEntity scores query against the name and every port of e and keeps
// the best match.
func scoreEntity(e snapshot.Entity, query string) int {
	if query == "" {
		return NeutralScore
	}
	return bestScore(fuzzy.FindFrom(query, entityStrings(e)))
}

func bestScore(matches fuzzy.Matches) int {
	if len(matches) == 0 {
		return 0
	}
	top := matches[0].Score
	for _, m := range matches[1:] {
		top = max(top, m.Score)
	}
	return max(top+scoreBase, 1)
}
