package versioning_test

import (
	"testing"

	"tenders/internal/versioning"
	"tenders/models"

	"github.com/stretchr/testify/require"
)

func TestBumpIncrementsByOne(t *testing.T) {
	tender := &models.Tender{Version: 1}
	for i := 0; i < 3; i++ {
		versioning.Bump(tender)
	}
	require.Equal(t, 4, tender.Version)
}

func TestRollbackBounds(t *testing.T) {
	cases := []struct {
		name    string
		current int
		target  int
		wantErr bool
		want    int
	}{
		{"to earlier", 5, 2, false, 2},
		{"to previous", 2, 1, false, 1},
		{"zero", 5, 0, true, 5},
		{"negative", 5, -1, true, 5},
		{"equal to current", 5, 5, true, 5},
		{"greater than current", 5, 7, true, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bid := &models.Bid{Version: tc.current}
			err := versioning.Rollback(bid, tc.target)
			if tc.wantErr {
				require.ErrorIs(t, err, models.ErrValidation)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.want, bid.Version)
		})
	}
}

func TestRollbackTwiceToSameVersion(t *testing.T) {
	tender := &models.Tender{Version: 4, Title: "current"}
	require.NoError(t, versioning.Rollback(tender, 2))
	require.Equal(t, 2, tender.Version)

	// второй откат к той же версии упирается в границу и ничего не меняет
	require.ErrorIs(t, versioning.Rollback(tender, 2), models.ErrValidation)
	require.Equal(t, 2, tender.Version)
	require.Equal(t, "current", tender.Title)
}

func TestEditTenderRejectsEmptyFields(t *testing.T) {
	tender := &models.Tender{Title: "Old", Description: "Old desc", Version: 3}

	err := versioning.EditTender(tender, versioning.TenderEdit{Title: "New", Description: ""})
	require.ErrorIs(t, err, models.ErrValidation)
	require.Equal(t, 3, tender.Version)
	require.Equal(t, "Old", tender.Title)

	err = versioning.EditTender(tender, versioning.TenderEdit{Title: "New", Description: "New desc"})
	require.NoError(t, err)
	require.Equal(t, 4, tender.Version)
	require.Equal(t, "New", tender.Title)
}

func TestEditBidRejectsNegativePrice(t *testing.T) {
	bid := &models.Bid{Description: "d", Price: 10, Version: 1, Status: models.BidPublished}

	require.ErrorIs(t, versioning.EditBid(bid, versioning.BidEdit{Description: "x", Price: -1}), models.ErrValidation)
	require.Equal(t, 1, bid.Version)

	require.NoError(t, versioning.EditBid(bid, versioning.BidEdit{Description: "x", Price: 20}))
	require.Equal(t, 2, bid.Version)
	require.Equal(t, models.BidPublished, bid.Status)
	require.Equal(t, 20.0, bid.Price)
}
