package quorum_test

import (
	"testing"

	"tenders/internal/quorum"
	"tenders/models"

	"github.com/stretchr/testify/require"
)

func reviews(statuses ...models.BidStatus) []models.BidReview {
	out := make([]models.BidReview, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, models.BidReview{Status: s})
	}
	return out
}

func TestThreshold(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 2, 3: 3, 5: 3, 100: 3, -1: 0}
	for responsibles, want := range cases {
		require.Equal(t, want, quorum.Threshold(responsibles), "responsibles=%d", responsibles)
	}
}

func TestDecideRejectionIsVeto(t *testing.T) {
	orders := [][]models.BidStatus{
		{models.BidRejected, models.BidApproved, models.BidApproved, models.BidApproved},
		{models.BidApproved, models.BidApproved, models.BidApproved, models.BidRejected},
		{models.BidApproved, models.BidRejected, models.BidApproved},
	}
	for _, order := range orders {
		d := quorum.Decide(reviews(order...), 2)
		require.Equal(t, quorum.Rejected, d.Outcome)
		status, changed := d.Status()
		require.True(t, changed)
		require.Equal(t, models.BidRejected, status)
		require.False(t, d.CloseTender())
	}
}

func TestDecideSmallOrganizationReachesQuorum(t *testing.T) {
	d := quorum.Decide(reviews(models.BidApproved, models.BidApproved), 2)

	require.Equal(t, quorum.Approved, d.Outcome)
	require.Equal(t, 2, d.Threshold)
	require.True(t, d.CloseTender())
	status, changed := d.Status()
	require.True(t, changed)
	require.Equal(t, models.BidApproved, status)
}

func TestDecideLargeOrganizationPending(t *testing.T) {
	d := quorum.Decide(reviews(models.BidApproved, models.BidApproved), 5)

	require.Equal(t, quorum.Pending, d.Outcome)
	require.Equal(t, 3, d.Threshold)
	require.Equal(t, 2, d.Approvals)
	_, changed := d.Status()
	require.False(t, changed)
	require.False(t, d.CloseTender())

	d = quorum.Decide(reviews(models.BidApproved, models.BidApproved, models.BidApproved), 5)
	require.Equal(t, quorum.Approved, d.Outcome)
}

func TestDecideIgnoresNonVotes(t *testing.T) {
	d := quorum.Decide(reviews(models.BidCreated, models.BidPublished, models.BidApproved), 3)
	require.Equal(t, quorum.Pending, d.Outcome)
	require.Equal(t, 1, d.Approvals)
}
