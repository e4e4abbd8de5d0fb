// internal/storage/pages.go
package storage

import (
	"context"

	"attendance_backend/internal/models"
)

// collectPages accumulates range-bounded pages until one comes back
// short or empty, which is the end-of-data signal. Pages are fetched
// sequentially; ctx is checked between requests so a caller-imposed
// deadline stops the loop at a page boundary.
func collectPages(ctx context.Context, size int, fetch func(offset int) ([]models.AttendanceRecord, error)) ([]models.AttendanceRecord, error) {
	var all []models.AttendanceRecord
	for offset := 0; ; offset += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := fetch(offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < size {
			return all, nil
		}
	}
}
