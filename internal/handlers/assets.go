package handlers

import (
	"net/http"

	"finance_tracker/internal/models"
	"finance_tracker/internal/services"
)

// AssetHandler handles non-market holdings.
type AssetHandler struct {
	deps   *Dependencies
	assets *services.AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(deps *Dependencies) *AssetHandler {
	return &AssetHandler{deps: deps, assets: deps.Services.Assets}
}

// List returns every asset.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.ListAssets(currentUser(r).ID)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if assets == nil {
		assets = []*models.Asset{}
	}
	writeJSON(w, http.StatusOK, assets)
}

// Create records an asset.
func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.NewAsset
	if err := decodeJSON(w, r, &req); err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	asset, err := h.assets.AddAsset(currentUser(r).ID, req)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// Delete removes an asset.
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "assetID")
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if err := h.assets.DeleteAsset(currentUser(r).ID, id); err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
