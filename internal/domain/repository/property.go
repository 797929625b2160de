package repository

import (
	"context"
	"time"

	"github.com/dohkar/dohkar-api/internal/domain/types"
)

// Property es un anuncio inmobiliario.
type Property struct {
	ID          string
	Title       string
	Price       float64
	Currency    types.Currency
	Location    string
	Region      types.Region
	Type        types.PropertyType
	Rooms       *int
	Area        float64
	Description string
	Images      []string
	Features    []string
	Status      types.PropertyStatus
	Views       int
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Owner se completa en lecturas que hacen join con users.
	Owner *PropertyOwner
}

// PropertyOwner son los datos públicos del dueño que viajan con el anuncio.
type PropertyOwner struct {
	ID     string
	Name   *string
	Phone  *string
	Email  *string
	Avatar *string
}

// PropertyInput son los campos de creación. Currency/Status vacíos toman default.
type PropertyInput struct {
	Title       string
	Price       float64
	Currency    types.Currency
	Location    string
	Region      types.Region
	Type        types.PropertyType
	Rooms       *int
	Area        float64
	Description string
	Images      []string
	Features    []string
	Status      types.PropertyStatus
}

// PropertyPatch: nil significa "no tocar".
type PropertyPatch struct {
	Title       *string
	Price       *float64
	Currency    *types.Currency
	Location    *string
	Region      *types.Region
	Type        *types.PropertyType
	Rooms       *int
	Area        *float64
	Description *string
	Images      *[]string
	Features    *[]string
	Status      *types.PropertyStatus
}

// PropertySort controla el orden del listado.
type PropertySort string

const (
	SortDateDesc  PropertySort = "date-desc"
	SortPriceAsc  PropertySort = "price-asc"
	SortPriceDesc PropertySort = "price-desc"
)

// PropertyFilter aplica cada filtro solo si está presente.
type PropertyFilter struct {
	Status   *types.PropertyStatus
	Type     *types.PropertyType
	Region   *types.Region
	PriceMin *float64
	PriceMax *float64
	Rooms    *int
	AreaMin  *float64
	// Query busca en title/description/location (ILIKE).
	Query string
	// Search es la búsqueda del admin: title/location.
	Search string
	UserID string
	Sort   PropertySort
	Offset int
	Limit  int
}

// PropertyRepository define operaciones sobre anuncios.
type PropertyRepository interface {
	Create(ctx context.Context, userID string, in PropertyInput) (*Property, error)

	// GetByID incluye Owner. ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Property, error)

	// IncrementViews suma 1 en una sola sentencia y retorna el anuncio.
	IncrementViews(ctx context.Context, id string) (*Property, error)

	Update(ctx context.Context, id string, p PropertyPatch) (*Property, error)
	SetStatus(ctx context.Context, id string, status types.PropertyStatus) (*Property, error)
	Delete(ctx context.Context, id string) error

	// List retorna (items con Owner, total sin paginar).
	List(ctx context.Context, f PropertyFilter) ([]Property, int, error)

	Exists(ctx context.Context, id string) (bool, error)
}
