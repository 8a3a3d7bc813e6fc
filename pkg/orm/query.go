// Package orm is a thin timed wrapper over gorm used by the repositories.
// Every terminal call is observed in pizza_db_query_duration_seconds.
package orm

import (
	"context"
	"math"
	"reflect"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/pkg/database"
	"github.com/shashiranjanraj/jwtpizza/pkg/metrics"
)

type Query struct {
	db *gorm.DB
}

// DB starts a query on the process-wide connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// On starts a query on an explicit connection or transaction.
func On(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for anything the wrapper lacks.
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Preload(assoc string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(assoc, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

// Updates writes the given column map on the matched rows.
func (q *Query) Updates(values map[string]interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Updates(values).Error
}

// Delete removes matching rows and reports how many were affected.
func (q *Query) Delete(v interface{}, conds ...interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := q.db.Delete(v, conds...)
	return res.RowsAffected, res.Error
}

// Transaction runs fn in a transaction, rolling back when it returns an error.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(On(tx))
	})
}

// ─── Pagination ───────────────────────────────────────────────────────────────

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps Number*Limit inside a 32-bit offset.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Page is a zero-based page of Limit rows.
type Page struct {
	Number int `json:"page"`
	Limit  int `json:"limit"`
}

// NewPage clamps raw query values into a usable page.
func NewPage(number, limit int) Page {
	if number < 0 {
		number = 0
	}
	if number > MaxPage {
		number = MaxPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: number, Limit: limit}
}

// Paginate loads one page into dest, a pointer to a slice, and reports
// whether more rows follow. It fetches one extra row instead of counting.
func (q *Query) Paginate(dest interface{}, page Page) (more bool, err error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	page = NewPage(page.Number, page.Limit)
	if err := q.db.Offset(page.Number * page.Limit).Limit(page.Limit + 1).Find(dest).Error; err != nil {
		return false, err
	}

	rows := reflect.ValueOf(dest).Elem()
	if rows.Len() > page.Limit {
		rows.Set(rows.Slice(0, page.Limit))
		return true, nil
	}
	return false, nil
}
