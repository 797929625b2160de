package properties

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/validation"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// PropertyQuery son los filtros de GET /api/properties.
type PropertyQuery struct {
	Type     *types.PropertyType
	Region   *types.Region
	PriceMin *float64
	PriceMax *float64
	Rooms    *int
	AreaMin  *float64
	Query    string
	SortBy   repository.PropertySort
	Page     int
	Limit    int
}

// ParsePropertyQuery lee y valida los parámetros. Parámetros vacíos se ignoran.
func ParsePropertyQuery(v url.Values) (PropertyQuery, error) {
	errs := validation.Errors{}
	q := PropertyQuery{
		Query:  strings.TrimSpace(v.Get("query")),
		SortBy: repository.SortDateDesc,
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}

	if s := v.Get("type"); s != "" {
		t := types.PropertyType(strings.ToUpper(s))
		if !t.IsValid() {
			errs.Add("type", "is invalid")
		}
		q.Type = &t
	}
	if s := v.Get("region"); s != "" {
		r := types.Region(strings.ToUpper(s))
		if !r.IsValid() {
			errs.Add("region", "is invalid")
		}
		q.Region = &r
	}
	q.PriceMin = nonNegFloat(errs, v, "priceMin")
	q.PriceMax = nonNegFloat(errs, v, "priceMax")
	q.AreaMin = nonNegFloat(errs, v, "areaMin")
	if q.PriceMin != nil && q.PriceMax != nil && *q.PriceMin > *q.PriceMax {
		errs.Add("priceMax", "must be >= priceMin")
	}
	if n, ok := intParam(errs, v, "rooms"); ok {
		if n < 1 {
			errs.Add("rooms", "must be >= 1")
		}
		q.Rooms = &n
	}
	if n, ok := intParam(errs, v, "page"); ok {
		if n < 1 {
			errs.Add("page", "must be >= 1")
		}
		q.Page = n
	}
	if n, ok := intParam(errs, v, "limit"); ok {
		if n < 1 || n > MaxLimit {
			errs.Add("limit", "must be between 1 and 100")
		}
		q.Limit = n
	}
	switch s := v.Get("sortBy"); s {
	case "", "date-desc", "relevance":
	case "price-asc":
		q.SortBy = repository.SortPriceAsc
	case "price-desc":
		q.SortBy = repository.SortPriceDesc
	default:
		errs.Add("sortBy", "must be price-asc, price-desc, date-desc or relevance")
	}
	if err := errs.Err(); err != nil {
		return PropertyQuery{}, err
	}
	return q, nil
}

// Filter arma el filtro del repositorio; el listado público solo ve ACTIVE.
func (q PropertyQuery) Filter() repository.PropertyFilter {
	active := types.StatusActive
	return repository.PropertyFilter{
		Status:   &active,
		Type:     q.Type,
		Region:   q.Region,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
		Rooms:    q.Rooms,
		AreaMin:  q.AreaMin,
		Query:    q.Query,
		Sort:     q.SortBy,
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	}
}

func intParam(errs validation.Errors, v url.Values, key string) (int, bool) {
	s := v.Get(key)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		errs.Add(key, "must be an integer")
		return 0, false
	}
	return n, true
}

func nonNegFloat(errs validation.Errors, v url.Values, key string) *float64 {
	s := v.Get(key)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		errs.Add(key, "must be a number")
		return nil
	}
	if f < 0 {
		errs.Add(key, "must be >= 0")
	}
	return &f
}
