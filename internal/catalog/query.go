package catalog

import (
	"context"
	"strings"

	"storefront-catalog-service/internal/domain"
)

// SortPolicy names one of the fixed storefront orderings.
type SortPolicy string

const (
	SortByName      SortPolicy = "name"
	SortByPriceLow  SortPolicy = "price-low"
	SortByPriceHigh SortPolicy = "price-high"
	SortByRating    SortPolicy = "rating"
	SortByNewest    SortPolicy = "newest"
)

// ParseSortPolicy maps a user-supplied sort value onto the fixed policy set.
// Unknown values fall back to the default ordering instead of failing; sort is
// a ranking preference, not a correctness-critical input.
func ParseSortPolicy(s string) SortPolicy {
	switch SortPolicy(s) {
	case SortByPriceLow, SortByPriceHigh, SortByRating, SortByNewest:
		return SortPolicy(s)
	default:
		return SortByName
	}
}

// Field identifies a product attribute a condition or sort key refers to.
// The store decides how each field maps onto its own schema.
type Field string

const (
	FieldID         Field = "id"
	FieldName       Field = "name"
	FieldPrice      Field = "price"
	FieldBrand      Field = "brand"
	FieldRating     Field = "rating"
	FieldStock      Field = "stock"
	FieldCategoryID Field = "category_id"
	FieldIsActive   Field = "is_active"
	FieldCreatedAt  Field = "created_at"

	// FieldTextQuery carries a free-text match delegated to the store's text
	// search; FieldRelevance is the store-computed match score, usable only as
	// a sort key alongside a FieldTextQuery condition.
	FieldTextQuery Field = "text_query"
	FieldRelevance Field = "relevance"
)

// Op is a comparison operator within a condition.
type Op string

const (
	OpEq      Op = "eq"
	OpGt      Op = "gt"
	OpGte     Op = "gte"
	OpLte     Op = "lte"
	OpIn      Op = "in"
	OpMatches Op = "matches"
)

// Condition is a single field comparison.
type Condition struct {
	Field Field
	Op    Op
	Value interface{}
}

// Predicate is a conjunction of conditions. The store treats it as an opaque
// value and translates each condition to its own query language.
type Predicate struct {
	Conditions []Condition
}

// SortKey orders results by one field.
type SortKey struct {
	Field      Field
	Descending bool
}

// FilterSpec captures one storefront listing request after the HTTP layer has
// parsed and clamped the raw parameters. Zero values mean "filter not set".
type FilterSpec struct {
	CategoryIDs []int64 // target category plus its active descendants
	PriceMin    *float64
	PriceMax    *float64
	Brands      []string // any-of
	MinRating   *float64
	InStockOnly bool
	SearchText  string
	SortPolicy  SortPolicy
	Page        int // 1-based
	PageSize    int
}

// QueryPlan is the store-facing form of a FilterSpec: one predicate, one
// resolved sort order, one pagination window.
type QueryPlan struct {
	Predicate Predicate
	Sort      []SortKey
	Offset    int
	Limit     int
}

// QueryResult is one page of matching products plus the totals the storefront
// needs for pagination controls.
type QueryResult struct {
	Items      []domain.Product `json:"items"`
	TotalCount int              `json:"total_count"`
	PageCount  int              `json:"page_count"`
}

// conditionBuilders each inspect one optional filter field and contribute its
// condition when set. Folding these keeps the plan a flat conjunction and
// makes adding a filter a one-line change.
var conditionBuilders = []func(FilterSpec) (Condition, bool){
	func(s FilterSpec) (Condition, bool) {
		if len(s.CategoryIDs) == 0 {
			return Condition{}, false
		}
		ids := make([]int64, len(s.CategoryIDs))
		copy(ids, s.CategoryIDs)
		return Condition{Field: FieldCategoryID, Op: OpIn, Value: ids}, true
	},
	func(s FilterSpec) (Condition, bool) {
		if s.PriceMin == nil {
			return Condition{}, false
		}
		return Condition{Field: FieldPrice, Op: OpGte, Value: *s.PriceMin}, true
	},
	func(s FilterSpec) (Condition, bool) {
		if s.PriceMax == nil {
			return Condition{}, false
		}
		return Condition{Field: FieldPrice, Op: OpLte, Value: *s.PriceMax}, true
	},
	func(s FilterSpec) (Condition, bool) {
		brands := normalizeBrands(s.Brands)
		if len(brands) == 0 {
			// An empty set after normalization means "no brand filter", never
			// "match nothing".
			return Condition{}, false
		}
		return Condition{Field: FieldBrand, Op: OpIn, Value: brands}, true
	},
	func(s FilterSpec) (Condition, bool) {
		if s.MinRating == nil {
			return Condition{}, false
		}
		return Condition{Field: FieldRating, Op: OpGte, Value: *s.MinRating}, true
	},
	func(s FilterSpec) (Condition, bool) {
		if !s.InStockOnly {
			return Condition{}, false
		}
		return Condition{Field: FieldStock, Op: OpGt, Value: int32(0)}, true
	},
	func(s FilterSpec) (Condition, bool) {
		q := strings.TrimSpace(s.SearchText)
		if q == "" {
			return Condition{}, false
		}
		return Condition{Field: FieldTextQuery, Op: OpMatches, Value: q}, true
	},
}

func normalizeBrands(brands []string) []string {
	out := make([]string, 0, len(brands))
	for _, b := range brands {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// sortKeysFor resolves a policy to its primary ordering. The id tie-break is
// appended centrally in BuildQueryPlan, never per policy: without a stable
// unique final key, records sharing a primary value can swap across pages.
func sortKeysFor(policy SortPolicy) []SortKey {
	switch policy {
	case SortByPriceLow:
		return []SortKey{{Field: FieldPrice}}
	case SortByPriceHigh:
		return []SortKey{{Field: FieldPrice, Descending: true}}
	case SortByRating:
		return []SortKey{{Field: FieldRating, Descending: true}}
	case SortByNewest:
		return []SortKey{{Field: FieldCreatedAt, Descending: true}}
	default:
		return []SortKey{{Field: FieldName}}
	}
}

// BuildQueryPlan translates a FilterSpec into the plan executed against the
// store. Pure; no I/O. Inactive products are always excluded. When search text
// is present the store's relevance score becomes the primary sort key and the
// requested policy only breaks ties.
func BuildQueryPlan(spec FilterSpec) QueryPlan {
	conds := []Condition{{Field: FieldIsActive, Op: OpEq, Value: true}}
	searching := false
	for _, build := range conditionBuilders {
		if c, ok := build(spec); ok {
			conds = append(conds, c)
			if c.Field == FieldTextQuery {
				searching = true
			}
		}
	}

	var sortKeys []SortKey
	if searching {
		sortKeys = append(sortKeys, SortKey{Field: FieldRelevance, Descending: true})
	}
	sortKeys = append(sortKeys, sortKeysFor(spec.SortPolicy)...)
	sortKeys = append(sortKeys, SortKey{Field: FieldID})

	page := spec.Page
	if page < 1 {
		page = 1
	}
	size := spec.PageSize
	if size < 1 {
		size = 1
	}

	return QueryPlan{
		Predicate: Predicate{Conditions: conds},
		Sort:      sortKeys,
		Offset:    (page - 1) * size,
		Limit:     size,
	}
}

// Store is the read capability ExecuteQuery needs. A plan's predicate is
// passed to both methods verbatim; implementations must apply it identically
// in the count and in the page read.
type Store interface {
	CountProducts(ctx context.Context, pred Predicate) (int, error)
	QueryProducts(ctx context.Context, pred Predicate, sort []SortKey, offset, limit int) ([]domain.Product, error)
}

// ExecuteQuery runs a plan: one count read, one page read, both against the
// same predicate, so the reported totals always describe the same matching
// set as the page contents. Store failures propagate unchanged; a page past
// the end yields empty items with correct totals, never an error.
func ExecuteQuery(ctx context.Context, s Store, plan QueryPlan) (*QueryResult, error) {
	totalCount, err := s.CountProducts(ctx, plan.Predicate)
	if err != nil {
		return nil, err
	}
	if totalCount == 0 {
		return &QueryResult{Items: []domain.Product{}}, nil
	}

	items, err := s.QueryProducts(ctx, plan.Predicate, plan.Sort, plan.Offset, plan.Limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Product{}
	}

	return &QueryResult{
		Items:      items,
		TotalCount: totalCount,
		PageCount:  (totalCount + plan.Limit - 1) / plan.Limit,
	}, nil
}
