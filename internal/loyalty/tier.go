// Package loyalty resolves a client's loyalty tier from their point balance.
package loyalty

import (
	"errors"
	"fmt"
)

var (
	ErrNoTiers        = errors.New("tier list is empty")
	ErrNegativePoints = errors.New("points must be non-negative")
	ErrUnsortedTiers  = errors.New("tiers must be sorted ascending by min_points")
)

// Tier is a reward level unlocked at MinPoints.
type Tier struct {
	Name      string   `json:"name" yaml:"name"`
	MinPoints int64    `json:"min_points" yaml:"min_points"`
	Benefits  []string `json:"benefits,omitempty" yaml:"benefits,omitempty"`
}

// Resolution is a client's standing within a tier list.
type Resolution struct {
	Current         Tier    `json:"current_tier"`
	Next            *Tier   `json:"next_tier"`
	ProgressPercent float64 `json:"progress_percent"`
	PointsToNext    int64   `json:"points_to_next"`
}

// Validate checks that tiers is usable by Resolve.
func Validate(tiers []Tier) error {
	if len(tiers) == 0 {
		return ErrNoTiers
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].MinPoints < tiers[i-1].MinPoints {
			return fmt.Errorf("%w: tier %d (%d) is below tier %d (%d)",
				ErrUnsortedTiers, i, tiers[i].MinPoints, i-1, tiers[i-1].MinPoints)
		}
	}
	return nil
}

// Resolve finds the highest tier whose threshold points reaches, falling back
// to the first tier. The caller owns ordering; tiers are never sorted here.
func Resolve(points int64, tiers []Tier) (Resolution, error) {
	if points < 0 {
		return Resolution{}, ErrNegativePoints
	}
	if err := Validate(tiers); err != nil {
		return Resolution{}, err
	}

	current := 0
	for i, t := range tiers {
		if t.MinPoints <= points {
			current = i
		}
	}

	res := Resolution{
		Current:         tiers[current],
		ProgressPercent: 100,
	}
	if current+1 < len(tiers) {
		next := tiers[current+1]
		res.Next = &next
		res.ProgressPercent = progress(points, next.MinPoints)
		if next.MinPoints > points {
			res.PointsToNext = next.MinPoints - points
		}
	}
	return res, nil
}

func progress(points, target int64) float64 {
	if target <= 0 {
		return 100
	}
	pct := float64(points) * 100 / float64(target)
	if pct > 100 {
		return 100
	}
	return pct
}

// DefaultTiers is the catalog used when a business has not configured its own.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "Bronze", MinPoints: 0, Benefits: []string{"Member pricing"}},
		{Name: "Silver", MinPoints: 100, Benefits: []string{"Member pricing", "5% off every order"}},
		{Name: "Gold", MinPoints: 500, Benefits: []string{"10% off every order", "Free delivery"}},
		{Name: "Platinum", MinPoints: 1000, Benefits: []string{"15% off every order", "Free delivery", "Priority support"}},
	}
}
