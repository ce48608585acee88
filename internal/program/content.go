package program

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// CreateContentArgs are the inputs to CreateContent. Price and MaxLicenses
// are signed so that negative requests are rejected rather than wrapped.
type CreateContentArgs struct {
	ContentID   string
	ContentHash string
	Price       int64
	MaxLicenses int64
}

// UpdateContentArgs lists the content fields UpdateContent may overwrite.
// Nil fields are left unchanged. The content hash is fixed at creation.
type UpdateContentArgs struct {
	Price       *int64
	MaxLicenses *int64
	IsActive    *bool
}

// CreateContent registers a content item owned by signer and bumps the
// registry's content counter.
func (p *Program) CreateContent(ctx context.Context, signer string, args CreateContentArgs) (*types.Content, error) {
	if signer == "" {
		return nil, types.ErrUnauthorized
	}
	if err := checkID(args.ContentID); err != nil {
		return nil, err
	}
	if err := checkHash(args.ContentHash); err != nil {
		return nil, err
	}
	price, err := checkPrice(args.Price)
	if err != nil {
		return nil, err
	}
	maxLicenses, err := checkCapacity(args.MaxLicenses)
	if err != nil {
		return nil, err
	}

	now := p.timestamp()
	content := &types.Content{
		Authority:   signer,
		ContentID:   args.ContentID,
		ContentHash: args.ContentHash,
		Price:       price,
		MaxLicenses: maxLicenses,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = p.update(ctx, "create_content", func(tx types.Tx) error {
		var reg types.Registry
		if err := loadRegistry(tx, &reg); err != nil {
			return err
		}
		if err := tx.Create(content); err != nil {
			if errors.Is(err, types.ErrAddressInUse) {
				return types.ErrDuplicateContent
			}
			return err
		}
		reg.TotalContent++
		return tx.Put(&reg)
	},
		zap.String("content_id", args.ContentID),
		zap.String("authority", signer),
		zap.Uint64("price", price),
		zap.Uint32("max_licenses", maxLicenses),
	)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// UpdateContent overwrites the supplied fields of contentID. Only the
// content authority may update; a new capacity below the active license
// count fails with ErrInvalidCapacity.
func (p *Program) UpdateContent(ctx context.Context, signer, contentID string, args UpdateContentArgs) (*types.Content, error) {
	if err := checkID(contentID); err != nil {
		return nil, err
	}

	var content types.Content
	err := p.update(ctx, "update_content", func(tx types.Tx) error {
		if err := loadContent(tx, contentID, &content); err != nil {
			return err
		}
		if err := requireSigner(signer, content.Authority); err != nil {
			return err
		}
		if args.Price != nil {
			price, err := checkPrice(*args.Price)
			if err != nil {
				return err
			}
			content.Price = price
		}
		if args.MaxLicenses != nil {
			n, err := checkCapacity(*args.MaxLicenses)
			if err != nil {
				return err
			}
			if err := content.SetMaxLicenses(n); err != nil {
				return err
			}
		}
		if args.IsActive != nil {
			content.IsActive = *args.IsActive
		}
		content.UpdatedAt = p.timestamp()
		return tx.Put(&content)
	}, zap.String("content_id", contentID), zap.String("signer", signer))
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// Content returns the content record for contentID.
func (p *Program) Content(ctx context.Context, contentID string) (*types.Content, error) {
	var content types.Content
	if err := p.ledger.View(ctx, func(tx types.Tx) error {
		return loadContent(tx, contentID, &content)
	}); err != nil {
		return nil, err
	}
	return &content, nil
}

// ListContents returns content records matching filter, oldest first.
func (p *Program) ListContents(ctx context.Context, filter types.Filter) ([]*types.Content, error) {
	return fetch[*types.Content](ctx, p.ledger, types.KindContent, filter)
}

func loadContent(tx types.Tx, contentID string, dst *types.Content) error {
	if err := tx.Get(types.ContentAddress(contentID), dst); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("content %q: %w", contentID, types.ErrNotFound)
		}
		return err
	}
	return nil
}

// fetch lists records of kind and narrows them to T.
func fetch[T types.Record](ctx context.Context, ledger types.Ledger, kind string, filter types.Filter) ([]T, error) {
	recs, err := ledger.Fetch(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		rec, ok := r.(T)
		if !ok {
			return nil, fmt.Errorf("fetch %s returned %T: %w", kind, r, types.ErrInvalidData)
		}
		out = append(out, rec)
	}
	return out, nil
}
