package option

import "gorm.io/gorm"

// QueryOption mutates a gorm query before execution.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type orderBy struct {
	expr string
}

func (o orderBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(o.expr)
}

// WithOrderBy orders results by the given column expression.
func WithOrderBy(expr string) QueryOption {
	return orderBy{expr: expr}
}
