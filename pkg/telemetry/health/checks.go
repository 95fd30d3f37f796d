package health

import (
	"context"
	"errors"
	"fmt"

	"bcsb-lending/conditions-matrix/pkg/catalog"
)

// CatalogCheck fails when no catalog is loaded or the catalog has no
// amount buckets, since no evaluation could select one.
func CatalogCheck(cat *catalog.Catalog) CheckFunc {
	return func(ctx context.Context) error {
		if cat == nil {
			return errors.New("catalog not loaded")
		}
		if len(cat.Buckets()) == 0 {
			return errors.New("catalog has no amount buckets")
		}
		return nil
	}
}

// SessionCapacityCheck fails when count reaches limit. A non-positive limit
// always passes.
func SessionCapacityCheck(count func() int, limit int) CheckFunc {
	return func(ctx context.Context) error {
		if limit <= 0 {
			return nil
		}
		if n := count(); n >= limit {
			return fmt.Errorf("session store full (%d of %d)", n, limit)
		}
		return nil
	}
}
