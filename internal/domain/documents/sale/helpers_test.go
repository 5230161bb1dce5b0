package sale_test

import "inventory/internal/domain"

func listAll() domain.ListFilter {
	f := domain.ListFilter{}
	f.Normalize()
	return f
}
