package services

import (
	"errors"
	"fmt"

	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/models"
	"finance_tracker/internal/repository"
)

// AssetService manages non-market assets.
type AssetService struct {
	repos *Repositories
}

// NewAssetService creates a new AssetService.
func NewAssetService(repos *Repositories) *AssetService {
	return &AssetService{repos: repos}
}

// AddAsset records an asset at its purchase price.
func (s *AssetService) AddAsset(userID int64, cmd NewAsset) (*models.Asset, error) {
	if err := Validate(cmd); err != nil {
		return nil, err
	}
	a := &models.Asset{
		UserID:         userID,
		Name:           cmd.Name,
		PurchasePrice:  cmd.PurchasePrice,
		YearOfPurchase: cmd.YearOfPurchase,
	}
	id, err := s.repos.Assets.Create(a)
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}
	a.ID = id
	return a, nil
}

// ListAssets returns the user's assets.
func (s *AssetService) ListAssets(userID int64) ([]*models.Asset, error) {
	assets, err := s.repos.Assets.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	return assets, nil
}

// DeleteAsset removes one of the user's assets.
func (s *AssetService) DeleteAsset(userID, assetID int64) error {
	err := s.repos.Assets.Delete(userID, assetID)
	if errors.Is(err, repository.ErrAssetNotFound) {
		return apperrors.NotFound("asset")
	}
	return err
}
