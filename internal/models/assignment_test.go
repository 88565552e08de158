package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAssignmentCanTransition(t *testing.T) {
	cases := []struct {
		from    AssignmentStatus
		to      AssignmentStatus
		allowed bool
	}{
		{AssignmentStatusPending, AssignmentStatusCompleted, true},
		{AssignmentStatusPending, AssignmentStatusFailed, true},
		{AssignmentStatusCompleted, AssignmentStatusGraded, true},
		{AssignmentStatusPending, AssignmentStatusGraded, false},
		{AssignmentStatusCompleted, AssignmentStatusFailed, false},
		{AssignmentStatusGraded, AssignmentStatusCompleted, false},
		{AssignmentStatusFailed, AssignmentStatusCompleted, false},
	}

	for _, tc := range cases {
		a := Assignment{Status: tc.from}
		require.Equal(t, tc.allowed, a.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAssignmentDeadlineBoundary(t *testing.T) {
	deadline := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	a := Assignment{Status: AssignmentStatusPending, Deadline: deadline}

	require.False(t, a.IsPastDue(deadline), "submitting exactly at the deadline is on time")
	require.True(t, a.IsPastDue(deadline.Add(time.Millisecond)))
}

func TestAssignmentIsReclaimable(t *testing.T) {
	now := time.Now()

	failed := Assignment{Status: AssignmentStatusFailed, Deadline: now.Add(time.Hour)}
	require.True(t, failed.IsReclaimable(now))

	lapsed := Assignment{Status: AssignmentStatusPending, Deadline: now.Add(-time.Minute)}
	require.True(t, lapsed.IsReclaimable(now))

	// The exact deadline instant already opens the buy-back, even though a
	// submission at that instant would still be on time.
	atDeadline := Assignment{Status: AssignmentStatusPending, Deadline: now}
	require.True(t, atDeadline.IsReclaimable(now))
	require.False(t, atDeadline.IsPastDue(now))

	active := Assignment{Status: AssignmentStatusPending, Deadline: now.Add(time.Hour)}
	require.False(t, active.IsReclaimable(now))

	graded := Assignment{Status: AssignmentStatusGraded, Deadline: now.Add(-time.Hour)}
	require.False(t, graded.IsReclaimable(now))
}

func TestNormalizeWord(t *testing.T) {
	require.Equal(t, "haus", NormalizeWord("  Haus, "))
	require.Equal(t, "don't", NormalizeWord("don't"))
	require.Equal(t, "", NormalizeWord(" ?! "))
}
