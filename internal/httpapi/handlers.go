package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/internal/program"
	"github.com/mesh-intelligence/drm/internal/token"
	"github.com/mesh-intelligence/drm/pkg/types"
)

type createContentRequest struct {
	ContentID   string `json:"content_id" validate:"required,max=32"`
	ContentHash string `json:"content_hash" validate:"required,max=196"`
	Price       string `json:"price" validate:"required,amount"`
	MaxLicenses *int64 `json:"max_licenses" validate:"required,gte=0"`
}

type updateContentRequest struct {
	Price       *string `json:"price" validate:"omitempty,amount"`
	MaxLicenses *int64  `json:"max_licenses" validate:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}

type purchaseLicenseRequest struct {
	ContentID string `json:"content_id" validate:"required,max=32"`
	LicenseID string `json:"license_id" validate:"required,max=32"`
}

type registerPackageRequest struct {
	Name             string   `json:"package_name" validate:"required,max=32"`
	DRMType          string   `json:"drm_type" validate:"required,oneof=nft token mixed"`
	NFTMintAddresses []string `json:"nft_mint_addresses" validate:"max=20,dive,required,max=64"`
	TokenMintAddress *string  `json:"token_mint_address" validate:"omitempty,max=64"`
	MinTokenAmount   *int64   `json:"min_token_amount" validate:"omitempty,gte=0"`
}

type updatePackageRequest struct {
	DRMType             *string  `json:"drm_type" validate:"omitempty,oneof=nft token mixed"`
	NFTMintAddresses    []string `json:"nft_mint_addresses" validate:"omitempty,max=20,dive,required,max=64"`
	TokenMintAddress    *string  `json:"token_mint_address" validate:"omitempty,max=64"`
	ClearTokenMint      bool     `json:"clear_token_mint"`
	MinTokenAmount      *int64   `json:"min_token_amount" validate:"omitempty,gte=0"`
	ClearMinTokenAmount bool     `json:"clear_min_token_amount"`
	IsActive            *bool    `json:"is_active"`
}

type mintTokensRequest struct {
	Owner  string `json:"owner" validate:"required"`
	Amount string `json:"amount" validate:"required,amount"`
}

// contentView adds the human-readable price to a content record.
type contentView struct {
	*types.Content
	PriceAmount string `json:"price_amount"`
}

type balanceView struct {
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
	Amount  string `json:"amount"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) writeMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeError(w, status, code, msg)
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

func (h *Handler) view(c *types.Content) contentView {
	return contentView{Content: c, PriceAmount: token.FormatAmount(c.Price, h.decimals)}
}

// parseAmount converts a validated decimal string to a signed base-unit value.
func (h *Handler) parseAmount(s string) (int64, error) {
	units, err := token.ParseAmount(s, h.decimals)
	if err != nil {
		return 0, err
	}
	return int64(units), nil
}

// queryFilter builds a Filter from the allowed string and bool query params.
func queryFilter(r *http.Request, stringKeys ...string) (types.Filter, error) {
	q := r.URL.Query()
	filter := types.Filter{}
	for _, key := range stringKeys {
		if v := q.Get(key); v != "" {
			filter[key] = v
		}
	}
	if v := q.Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, types.ErrInvalidFilter
		}
		filter[types.FilterIsActive] = b
	}
	return filter, nil
}

func (h *Handler) getRegistry(w http.ResponseWriter, r *http.Request) {
	reg, err := h.program.Registry(r.Context())
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, reg)
}

func (h *Handler) initialize(w http.ResponseWriter, r *http.Request) {
	reg, err := h.program.Initialize(r.Context(), signerFromContext(r.Context()))
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, reg)
}

func (h *Handler) createContent(w http.ResponseWriter, r *http.Request) {
	var req createContentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	price, err := h.parseAmount(req.Price)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	c, err := h.program.CreateContent(r.Context(), signerFromContext(r.Context()), program.CreateContentArgs{
		ContentID:   req.ContentID,
		ContentHash: req.ContentHash,
		Price:       price,
		MaxLicenses: *req.MaxLicenses,
	})
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, h.view(c))
}

func (h *Handler) updateContent(w http.ResponseWriter, r *http.Request) {
	var req updateContentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	args := program.UpdateContentArgs{MaxLicenses: req.MaxLicenses, IsActive: req.IsActive}
	if req.Price != nil {
		price, err := h.parseAmount(*req.Price)
		if err != nil {
			h.writeMappedError(w, r, err)
			return
		}
		args.Price = &price
	}
	c, err := h.program.UpdateContent(r.Context(), signerFromContext(r.Context()), chi.URLParam(r, "contentID"), args)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, h.view(c))
}

func (h *Handler) getContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.program.Content(r.Context(), chi.URLParam(r, "contentID"))
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, h.view(c))
}

func (h *Handler) listContents(w http.ResponseWriter, r *http.Request) {
	filter, err := queryFilter(r, types.FilterAuthority)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	contents, err := h.program.ListContents(r.Context(), filter)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	views := make([]contentView, 0, len(contents))
	for _, c := range contents {
		views = append(views, h.view(c))
	}
	writeSuccess(w, http.StatusOK, views)
}

func (h *Handler) purchaseLicense(w http.ResponseWriter, r *http.Request) {
	var req purchaseLicenseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	lic, err := h.program.PurchaseLicense(r.Context(), signerFromContext(r.Context()), req.ContentID, req.LicenseID)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, lic)
}

func (h *Handler) verifyAccess(w http.ResponseWriter, r *http.Request) {
	lic, err := h.program.VerifyAccess(r.Context(), signerFromContext(r.Context()), chi.URLParam(r, "licenseID"))
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"access":  true,
		"license": lic,
	})
}

func (h *Handler) revokeLicense(w http.ResponseWriter, r *http.Request) {
	lic, err := h.program.RevokeLicense(r.Context(), signerFromContext(r.Context()), chi.URLParam(r, "licenseID"))
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, lic)
}

func (h *Handler) getLicense(w http.ResponseWriter, r *http.Request) {
	lic, err := h.program.License(r.Context(), chi.URLParam(r, "licenseID"))
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, lic)
}

func (h *Handler) listLicenses(w http.ResponseWriter, r *http.Request) {
	filter, err := queryFilter(r, types.FilterAuthority, types.FilterOwner)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	if id := r.URL.Query().Get("content_id"); id != "" {
		filter[types.FilterContent] = types.ContentAddress(id).String()
	}
	licenses, err := h.program.ListLicenses(r.Context(), filter)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, licenses)
}

func (h *Handler) registerPackage(w http.ResponseWriter, r *http.Request) {
	var req registerPackageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	pkg, err := h.program.RegisterPackage(r.Context(), signerFromContext(r.Context()), program.RegisterPackageArgs{
		Name:             req.Name,
		DRMType:          req.DRMType,
		NFTMintAddresses: req.NFTMintAddresses,
		TokenMintAddress: req.TokenMintAddress,
		MinTokenAmount:   req.MinTokenAmount,
	})
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, pkg)
}

func (h *Handler) updatePackage(w http.ResponseWriter, r *http.Request) {
	var req updatePackageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	pkg, err := h.program.UpdatePackage(r.Context(), signerFromContext(r.Context()), chi.URLParam(r, "name"), program.UpdatePackageArgs{
		DRMType:             req.DRMType,
		NFTMintAddresses:    req.NFTMintAddresses,
		TokenMintAddress:    req.TokenMintAddress,
		ClearTokenMint:      req.ClearTokenMint,
		MinTokenAmount:      req.MinTokenAmount,
		ClearMinTokenAmount: req.ClearMinTokenAmount,
		IsActive:            req.IsActive,
	})
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, pkg)
}

func (h *Handler) getPackage(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.program.Package(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, pkg)
}

func (h *Handler) listPackages(w http.ResponseWriter, r *http.Request) {
	filter, err := queryFilter(r, types.FilterAuthority)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	pkgs, err := h.program.ListPackages(r.Context(), filter)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, pkgs)
}

func (h *Handler) mintTokens(w http.ResponseWriter, r *http.Request) {
	var req mintTokensRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	units, err := token.ParseAmount(req.Amount, h.decimals)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	balance, err := h.program.MintTokens(r.Context(), signerFromContext(r.Context()), req.Owner, units)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, balanceView{
		Owner:   req.Owner,
		Balance: balance,
		Amount:  token.FormatAmount(balance, h.decimals),
	})
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	balance, err := h.program.Balance(r.Context(), owner)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, balanceView{
		Owner:   owner,
		Balance: balance,
		Amount:  token.FormatAmount(balance, h.decimals),
	})
}

func (h *Handler) listBalances(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.program.ListTokenAccounts(r.Context(), nil)
	if err != nil {
		h.writeMappedError(w, r, err)
		return
	}
	views := make([]balanceView, 0, len(accounts))
	for _, acct := range accounts {
		views = append(views, balanceView{
			Owner:   acct.Owner,
			Balance: acct.Balance,
			Amount:  token.FormatAmount(acct.Balance, h.decimals),
		})
	}
	writeSuccess(w, http.StatusOK, views)
}
