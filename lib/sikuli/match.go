// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"sort"
)

// Match is a region where a pattern was found.
type Match struct {
	area
}

func newMatch(c *Client, ref ObjectRef) *Match {
	return &Match{area{client: c, ref: ref}}
}

// Score is the similarity of the match, between 0 and 1.
func (m *Match) Score(ctx context.Context) (float64, error) {
	return floatCall(ctx, m.client, m, "getScore")
}

// Target is the point a click on the match hits: the center moved by
// the pattern's target offset.
func (m *Match) Target(ctx context.Context) (*Location, error) {
	return locationCall(ctx, m.client, m, "getTarget")
}

// Region returns the match as a plain region for further searching.
func (m *Match) Region() *Region {
	return newRegion(m.client, m.ref)
}

// SortByScore orders matches best first. Matches with equal scores
// keep their relative order.
func SortByScore(ctx context.Context, matches []*Match) error {
	scores := make(map[*Match]float64, len(matches))
	for _, match := range matches {
		score, err := match.Score(ctx)
		if err != nil {
			return err
		}
		scores[match] = score
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return scores[matches[i]] > scores[matches[j]]
	})
	return nil
}
