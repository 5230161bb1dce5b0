package catalog_repo

import (
	"context"

	"inventory/internal/domain/catalogs/vendor"
	"inventory/internal/infrastructure/storage/postgres"
)

const vendorTable = "vendors"

var _ vendor.Repository = (*VendorRepo)(nil)

// VendorRepo implements vendor.Repository.
type VendorRepo struct {
	*BaseCatalogRepo[*vendor.Vendor]
}

// NewVendorRepo creates a new vendor repository.
func NewVendorRepo(txm *postgres.TxManager) *VendorRepo {
	return &VendorRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*vendor.Vendor](
			txm,
			vendorTable,
			"vendor",
			postgres.Columns[vendor.Vendor](),
			func() *vendor.Vendor { return &vendor.Vendor{} },
		),
	}
}

// FindByContactInfo retrieves a vendor by its unique contact info.
func (r *VendorRepo) FindByContactInfo(ctx context.Context, contactInfo string) (*vendor.Vendor, error) {
	return r.GetBy(ctx, "contact_info", contactInfo)
}
