// Package types define los enums de dominio compartidos entre paquetes.
package types

import "strings"

// Role del usuario.
type Role string

const (
	RoleUser    Role = "USER"
	RolePremium Role = "PREMIUM"
	RoleAdmin   Role = "ADMIN"
)

// IsValid retorna true si el rol es conocido.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RolePremium, RoleAdmin:
		return true
	}
	return false
}

// AuthProvider identifica cómo se creó o vinculó la cuenta.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
	ProviderYandex AuthProvider = "YANDEX"
	ProviderVK     AuthProvider = "VK"
)

// ParseOAuthProvider maps a route segment ("google") to an external provider.
// LOCAL is never returned.
func ParseOAuthProvider(s string) (AuthProvider, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google":
		return ProviderGoogle, true
	case "yandex":
		return ProviderYandex, true
	case "vk":
		return ProviderVK, true
	}
	return "", false
}

// Slug is the lowercase route form ("google").
func (p AuthProvider) Slug() string { return strings.ToLower(string(p)) }

type PropertyType string

const (
	PropertyApartment  PropertyType = "APARTMENT"
	PropertyHouse      PropertyType = "HOUSE"
	PropertyLand       PropertyType = "LAND"
	PropertyCommercial PropertyType = "COMMERCIAL"
)

func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyLand, PropertyCommercial:
		return true
	}
	return false
}

// AllPropertyTypes se usa para estadísticas con ceros explícitos.
var AllPropertyTypes = []PropertyType{PropertyApartment, PropertyHouse, PropertyLand, PropertyCommercial}

type Region string

const (
	RegionChechnya   Region = "CHECHNYA"
	RegionIngushetia Region = "INGUSHETIA"
	RegionDagestan   Region = "DAGESTAN"
	RegionOther      Region = "OTHER"
)

func (r Region) IsValid() bool {
	switch r {
	case RegionChechnya, RegionIngushetia, RegionDagestan, RegionOther:
		return true
	}
	return false
}

var AllRegions = []Region{RegionChechnya, RegionIngushetia, RegionDagestan, RegionOther}

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func (c Currency) IsValid() bool {
	switch c {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// PropertyStatus de un anuncio. Solo ACTIVE es visible en el listado público.
type PropertyStatus string

const (
	StatusActive   PropertyStatus = "ACTIVE"
	StatusPending  PropertyStatus = "PENDING"
	StatusSold     PropertyStatus = "SOLD"
	StatusArchived PropertyStatus = "ARCHIVED"
)

func (s PropertyStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusSold, StatusArchived:
		return true
	}
	return false
}
