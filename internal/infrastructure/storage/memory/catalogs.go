package memory

import (
	"context"
	"slices"
	"strings"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/catalogs/vendor"
)

// --- categories ---

// CategoryRepo implements category.Repository.
type CategoryRepo struct{ store *Store }

// NewCategoryRepo creates a category repository.
func NewCategoryRepo(store *Store) *CategoryRepo { return &CategoryRepo{store: store} }

func (r *CategoryRepo) Create(ctx context.Context, c *category.Category) error {
	defer r.store.lock(ctx)()
	for _, existing := range r.store.data.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return apperror.NewDuplicate("category", "name", c.Name)
		}
	}
	r.store.data.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*category.Category, error) {
	defer r.store.lock(ctx)()
	c, ok := r.store.data.categories[categoryID]
	if !ok {
		return nil, apperror.NewNotFound("category", categoryID.String())
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*category.Category], error) {
	defer r.store.lock(ctx)()
	items := make([]*category.Category, 0, len(r.store.data.categories))
	for _, c := range r.store.data.categories {
		if matchesSearch(c.Name, filter.Search) {
			items = append(items, &c)
		}
	}
	slices.SortFunc(items, func(a, b *category.Category) int { return strings.Compare(a.Name, b.Name) })
	return domain.ListResult[*category.Category]{
		Items:      page(items, filter.Limit, filter.Offset),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*category.Category, error) {
	defer r.store.lock(ctx)()
	for _, c := range r.store.data.categories {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("category", name)
}

func (r *CategoryRepo) Exists(ctx context.Context, categoryID id.ID) (bool, error) {
	defer r.store.lock(ctx)()
	_, ok := r.store.data.categories[categoryID]
	return ok, nil
}

// --- vendors ---

// VendorRepo implements vendor.Repository.
type VendorRepo struct{ store *Store }

// NewVendorRepo creates a vendor repository.
func NewVendorRepo(store *Store) *VendorRepo { return &VendorRepo{store: store} }

func (r *VendorRepo) Create(ctx context.Context, v *vendor.Vendor) error {
	defer r.store.lock(ctx)()
	for _, existing := range r.store.data.vendors {
		if existing.ContactInfo == v.ContactInfo {
			return apperror.NewDuplicate("vendor", "contact info", v.ContactInfo)
		}
	}
	r.store.data.vendors[v.ID] = *v
	return nil
}

func (r *VendorRepo) GetByID(ctx context.Context, vendorID id.ID) (*vendor.Vendor, error) {
	defer r.store.lock(ctx)()
	v, ok := r.store.data.vendors[vendorID]
	if !ok {
		return nil, apperror.NewNotFound("vendor", vendorID.String())
	}
	return &v, nil
}

func (r *VendorRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*vendor.Vendor], error) {
	defer r.store.lock(ctx)()
	items := make([]*vendor.Vendor, 0, len(r.store.data.vendors))
	for _, v := range r.store.data.vendors {
		if matchesSearch(v.Name, filter.Search) {
			items = append(items, &v)
		}
	}
	slices.SortFunc(items, func(a, b *vendor.Vendor) int { return strings.Compare(a.Name, b.Name) })
	return domain.ListResult[*vendor.Vendor]{
		Items:      page(items, filter.Limit, filter.Offset),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *VendorRepo) FindByContactInfo(ctx context.Context, contactInfo string) (*vendor.Vendor, error) {
	defer r.store.lock(ctx)()
	for _, v := range r.store.data.vendors {
		if v.ContactInfo == contactInfo {
			return &v, nil
		}
	}
	return nil, apperror.NewNotFound("vendor", contactInfo)
}

func (r *VendorRepo) Exists(ctx context.Context, vendorID id.ID) (bool, error) {
	defer r.store.lock(ctx)()
	_, ok := r.store.data.vendors[vendorID]
	return ok, nil
}

// --- products ---

// ProductRepo implements product.Repository.
type ProductRepo struct{ store *Store }

// NewProductRepo creates a product repository.
func NewProductRepo(store *Store) *ProductRepo { return &ProductRepo{store: store} }

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.data.categories[p.CategoryID]; !ok {
		return apperror.NewNotFound("category", p.CategoryID.String())
	}
	for _, existing := range r.store.data.products {
		if existing.SKU == p.SKU {
			return apperror.NewDuplicate("product", "sku", p.SKU)
		}
		if existing.CategoryID == p.CategoryID && existing.Name == p.Name {
			return apperror.NewDuplicate("product", "name in category", p.Name)
		}
	}
	r.store.data.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	defer r.store.lock(ctx)()
	p, ok := r.store.data.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return &p, nil
}

// GetForUpdate is GetByID: transactions already hold the store exclusively.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	defer r.store.lock(ctx)()
	items := make([]*product.Product, 0, len(r.store.data.products))
	for _, p := range r.store.data.products {
		if matchesSearch(p.Name, filter.Search) || matchesSearch(p.SKU, filter.Search) {
			items = append(items, &p)
		}
	}
	slices.SortFunc(items, func(a, b *product.Product) int { return strings.Compare(a.Name, b.Name) })
	return domain.ListResult[*product.Product]{
		Items:      page(items, filter.Limit, filter.Offset),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *ProductRepo) FindByNameAndCategory(ctx context.Context, name string, categoryID id.ID) (*product.Product, error) {
	defer r.store.lock(ctx)()
	for _, p := range r.store.data.products {
		if p.CategoryID == categoryID && p.Name == name {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("product", name)
}

func (r *ProductRepo) FindBySKU(ctx context.Context, sku string) (*product.Product, error) {
	defer r.store.lock(ctx)()
	for _, p := range r.store.data.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, apperror.NewNotFound("product", sku)
}

// Update writes catalog fields only; current_stock keeps its stored value.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	defer r.store.lock(ctx)()
	stored, ok := r.store.data.products[p.ID]
	if !ok {
		return apperror.NewNotFound("product", p.ID.String())
	}
	if stored.Version != p.Version {
		return apperror.NewConcurrentModification("product", p.ID.String())
	}
	p.Touch()
	p.CurrentStock = stored.CurrentStock
	r.store.data.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Exists(ctx context.Context, productID id.ID) (bool, error) {
	defer r.store.lock(ctx)()
	_, ok := r.store.data.products[productID]
	return ok, nil
}

func (r *ProductRepo) ListAll(ctx context.Context) ([]*product.Product, error) {
	defer r.store.lock(ctx)()
	items := make([]*product.Product, 0, len(r.store.data.products))
	for _, p := range r.store.data.products {
		items = append(items, &p)
	}
	slices.SortFunc(items, func(a, b *product.Product) int { return strings.Compare(a.Name, b.Name) })
	return items, nil
}
