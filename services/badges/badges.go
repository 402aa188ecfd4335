// Package badges maps cumulative points onto the learner badge ladder.
package badges

import "math"

// Badge is one rung of the ladder.
type Badge struct {
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

const (
	Newbie      = "Newbie"
	Learner     = "Learner"
	Adept       = "Adept"
	Expert      = "Expert"
	Guru        = "Guru"
	Grandmaster = "Grandmaster"
)

// ladder is ordered from the lowest to the highest threshold.
var ladder = []Badge{
	{Name: Newbie, MinPoints: 0},
	{Name: Learner, MinPoints: 100},
	{Name: Adept, MinPoints: 500},
	{Name: Expert, MinPoints: 1000},
	{Name: Guru, MinPoints: 2500},
	{Name: Grandmaster, MinPoints: 5000},
}

// Ladder returns a copy of the badge table, lowest first.
func Ladder() []Badge {
	out := make([]Badge, len(ladder))
	copy(out, ladder)
	return out
}

// For returns the highest badge whose minimum does not exceed totalPoints.
func For(totalPoints int) Badge {
	for i := len(ladder) - 1; i >= 0; i-- {
		if totalPoints >= ladder[i].MinPoints {
			return ladder[i]
		}
	}
	return ladder[0]
}

// NameFor is For(totalPoints).Name.
func NameFor(totalPoints int) string {
	return For(totalPoints).Name
}

// Rank returns the 0-based position of a badge on the ladder, or -1 if unknown.
func Rank(name string) int {
	for i, b := range ladder {
		if b.Name == name {
			return i
		}
	}
	return -1
}

// Next returns the badge directly above current. ok is false at the top of the
// ladder. Unknown names resolve to the badge earned by points.
func Next(current string, points int) (next Badge, ok bool) {
	idx := Rank(current)
	if idx < 0 {
		idx = Rank(NameFor(points))
	}
	if idx+1 >= len(ladder) {
		return Badge{}, false
	}
	return ladder[idx+1], true
}

// Progress is the rounded percentage from the current badge's minimum to the
// next badge's minimum, clamped to [0, 100]. It is 100 at the top of the ladder.
func Progress(current string, points int) int {
	idx := Rank(current)
	if idx < 0 {
		idx = Rank(NameFor(points))
	}
	if idx+1 >= len(ladder) {
		return 100
	}
	lo, hi := ladder[idx].MinPoints, ladder[idx+1].MinPoints
	pct := int(math.Round(float64(points-lo) / float64(hi-lo) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Promoted reports whether moving from one badge to another climbs the ladder.
func Promoted(from, to string) bool {
	return Rank(to) > Rank(from)
}
