package program

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// TestRandomSequenceInvariants drives a seeded random mix of instructions
// and checks after every step that the registry counters equal the number
// of successful creations and purchases and that every content record stays
// within capacity.
func TestRandomSequenceInvariants(t *testing.T) {
	eachBackend(t, func(t *testing.T, newLedger ledgerFactory) {
		f := initialized(t, newLedger)
		buyers := []string{buyer, "B2", "B3"}
		for _, b := range buyers[1:] {
			_, err := f.p.MintTokens(f.ctx, auth, b, 1_000_000_000)
			require.NoError(t, err)
		}

		rng := rand.New(rand.NewSource(42))
		contentIDs := []string{"c1", "c2", "c3"}
		var licenses []string
		var created, purchased uint64
		var lastContent, lastLicenses uint64

		for step := 0; step < 150; step++ {
			contentID := contentIDs[rng.Intn(len(contentIDs))]
			var err error
			switch op := rng.Intn(4); op {
			case 0:
				_, err = f.p.CreateContent(f.ctx, auth, CreateContentArgs{
					ContentID:   contentID,
					ContentHash: "hash-" + contentID,
					Price:       int64(rng.Intn(1000)),
					MaxLicenses: int64(rng.Intn(4)),
				})
				if err == nil {
					created++
				}
			case 1:
				id := fmt.Sprintf("lic%d", step)
				_, err = f.p.PurchaseLicense(f.ctx, buyers[rng.Intn(len(buyers))], contentID, id)
				if err == nil {
					purchased++
					licenses = append(licenses, id)
				}
			case 2:
				if len(licenses) == 0 {
					continue
				}
				_, err = f.p.RevokeLicense(f.ctx, auth, licenses[rng.Intn(len(licenses))])
			case 3:
				args := UpdateContentArgs{}
				if rng.Intn(2) == 0 {
					args.MaxLicenses = ptr(int64(rng.Intn(5)))
				} else {
					args.IsActive = ptr(rng.Intn(3) > 0)
				}
				_, err = f.p.UpdateContent(f.ctx, auth, contentID, args)
			}
			if err != nil {
				require.True(t, types.IsRejection(err), "step %d: unexpected error %v", step, err)
			}

			reg := f.registry(t)
			assert.Equal(t, created, reg.TotalContent, "step %d", step)
			assert.Equal(t, purchased, reg.TotalLicenses, "step %d", step)
			assert.GreaterOrEqual(t, reg.TotalContent, lastContent)
			assert.GreaterOrEqual(t, reg.TotalLicenses, lastLicenses)
			lastContent, lastLicenses = reg.TotalContent, reg.TotalLicenses

			contents, err := f.p.ListContents(f.ctx, nil)
			require.NoError(t, err)
			for _, c := range contents {
				assert.LessOrEqual(t, c.CurrentLicenses, c.MaxLicenses, "step %d content %s", step, c.ContentID)
			}
		}
		assert.NotZero(t, created)
		assert.NotZero(t, purchased)
	})
}
