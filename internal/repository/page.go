package repository

import "gorm.io/gorm"

// MaxLimit caps every page size.
const MaxLimit = 500

// Page is an offset/limit window.  A non-positive Limit means "use the
// caller's default"; handlers resolve defaults before calling.
type Page struct {
	Skip  int
	Limit int
}

// NewPage clamps skip and limit.  def is used when limit is missing or
// not positive.
func NewPage(skip, limit, def int) Page {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Skip: skip, Limit: limit}
}

func (p Page) apply(tx *gorm.DB) *gorm.DB {
	p = NewPage(p.Skip, p.Limit, MaxLimit)
	return tx.Offset(p.Skip).Limit(p.Limit)
}
