// This file maps package records to and from rows of the packages table.
// NFT mint addresses are stored as a JSON array in a TEXT column.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/drm/pkg/types"
)

func packageValues(p *types.Package) ([]any, error) {
	mints := p.NFTMintAddresses
	if mints == nil {
		mints = []string{}
	}
	mintsJSON, err := json.Marshal(mints)
	if err != nil {
		return nil, fmt.Errorf("encoding nft_mint_addresses: %w", err)
	}

	var tokenMint, minAmount any
	if p.TokenMintAddress != nil {
		tokenMint = *p.TokenMintAddress
	}
	if p.MinTokenAmount != nil {
		minAmount = int64(*p.MinTokenAmount)
	}

	return []any{
		string(p.Address()),
		p.PackageName,
		p.Authority,
		p.DRMType,
		string(mintsJSON),
		tokenMint,
		minAmount,
		boolInt(p.IsActive),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	}, nil
}

func scanPackage(row rowScanner, p *types.Package) error {
	var (
		addr, mintsJSON      string
		tokenMint            sql.NullString
		minAmount            sql.NullInt64
		isActive             int64
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&addr, &p.PackageName, &p.Authority, &p.DRMType, &mintsJSON,
		&tokenMint, &minAmount, &isActive, &createdAt, &updatedAt,
	); err != nil {
		return err
	}

	var mints []string
	if err := json.Unmarshal([]byte(mintsJSON), &mints); err != nil {
		return fmt.Errorf("decoding nft_mint_addresses: %w", err)
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}

	p.NFTMintAddresses = mints
	p.TokenMintAddress = nil
	if tokenMint.Valid {
		s := tokenMint.String
		p.TokenMintAddress = &s
	}
	p.MinTokenAmount = nil
	if minAmount.Valid {
		n := uint64(minAmount.Int64)
		p.MinTokenAmount = &n
	}
	p.IsActive = isActive != 0
	p.CreatedAt = created
	p.UpdatedAt = updated
	return nil
}
