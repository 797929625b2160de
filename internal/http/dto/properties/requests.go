// Package properties contiene los DTOs de /api/properties.
package properties

import (
	"strings"
	"unicode/utf8"

	"github.com/dohkar/dohkar-api/internal/domain/repository"
	"github.com/dohkar/dohkar-api/internal/domain/types"
	"github.com/dohkar/dohkar-api/internal/validation"
)

const (
	maxTitleLength  = 200
	maxImages       = 30
	maxFeatureCount = 50
)

// CreatePropertyRequest: POST /api/properties
type CreatePropertyRequest struct {
	Title       string             `json:"title"`
	Price       float64            `json:"price"`
	Currency    types.Currency     `json:"currency,omitempty"`
	Location    string             `json:"location"`
	Region      types.Region       `json:"region"`
	Type        types.PropertyType `json:"type"`
	Rooms       *int               `json:"rooms,omitempty"`
	Area        float64            `json:"area"`
	Description string             `json:"description"`
	Images      []string           `json:"images"`
	Features    []string           `json:"features,omitempty"`
}

func (r *CreatePropertyRequest) Validate() error {
	errs := validation.Errors{}
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.Description = strings.TrimSpace(r.Description)

	checkTitle(errs, r.Title)
	if r.Location == "" {
		errs.Add("location", "is required")
	}
	if r.Description == "" {
		errs.Add("description", "is required")
	}
	if r.Price < 0 {
		errs.Add("price", "must be >= 0")
	}
	if r.Area < 0 {
		errs.Add("area", "must be >= 0")
	}
	if r.Currency != "" && !r.Currency.IsValid() {
		errs.Add("currency", "must be one of RUB, USD, EUR")
	}
	if !r.Region.IsValid() {
		errs.Add("region", "is invalid")
	}
	if !r.Type.IsValid() {
		errs.Add("type", "is invalid")
	}
	if r.Rooms != nil && *r.Rooms < 0 {
		errs.Add("rooms", "must be >= 0")
	}
	r.Images = cleanList(r.Images)
	if len(r.Images) == 0 {
		errs.Add("images", "at least one image is required")
	}
	r.Features = cleanList(r.Features)
	checkLists(errs, r.Images, r.Features)
	return errs.Err()
}

// Input arma el input del repositorio. Status queda vacío (ACTIVE).
func (r *CreatePropertyRequest) Input() repository.PropertyInput {
	return repository.PropertyInput{
		Title:       r.Title,
		Price:       r.Price,
		Currency:    r.Currency,
		Location:    r.Location,
		Region:      r.Region,
		Type:        r.Type,
		Rooms:       r.Rooms,
		Area:        r.Area,
		Description: r.Description,
		Images:      r.Images,
		Features:    r.Features,
	}
}

// UpdatePropertyRequest: PUT /api/properties/{id}. Todo opcional.
type UpdatePropertyRequest struct {
	Title       *string             `json:"title,omitempty"`
	Price       *float64            `json:"price,omitempty"`
	Currency    *types.Currency     `json:"currency,omitempty"`
	Location    *string             `json:"location,omitempty"`
	Region      *types.Region       `json:"region,omitempty"`
	Type        *types.PropertyType `json:"type,omitempty"`
	Rooms       *int                `json:"rooms,omitempty"`
	Area        *float64            `json:"area,omitempty"`
	Description *string             `json:"description,omitempty"`
	Images      *[]string           `json:"images,omitempty"`
	Features    *[]string           `json:"features,omitempty"`
}

func (r *UpdatePropertyRequest) Validate() error {
	errs := validation.Errors{}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		checkTitle(errs, t)
		r.Title = &t
	}
	if r.Location != nil {
		l := strings.TrimSpace(*r.Location)
		if l == "" {
			errs.Add("location", "must not be empty")
		}
		r.Location = &l
	}
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d == "" {
			errs.Add("description", "must not be empty")
		}
		r.Description = &d
	}
	if r.Price != nil && *r.Price < 0 {
		errs.Add("price", "must be >= 0")
	}
	if r.Area != nil && *r.Area < 0 {
		errs.Add("area", "must be >= 0")
	}
	if r.Currency != nil && !r.Currency.IsValid() {
		errs.Add("currency", "must be one of RUB, USD, EUR")
	}
	if r.Region != nil && !r.Region.IsValid() {
		errs.Add("region", "is invalid")
	}
	if r.Type != nil && !r.Type.IsValid() {
		errs.Add("type", "is invalid")
	}
	if r.Rooms != nil && *r.Rooms < 0 {
		errs.Add("rooms", "must be >= 0")
	}
	var images, features []string
	if r.Images != nil {
		images = cleanList(*r.Images)
		if len(images) == 0 {
			errs.Add("images", "at least one image is required")
		}
		r.Images = &images
	}
	if r.Features != nil {
		features = cleanList(*r.Features)
		r.Features = &features
	}
	checkLists(errs, images, features)
	return errs.Err()
}

func (r *UpdatePropertyRequest) Patch() repository.PropertyPatch {
	return repository.PropertyPatch{
		Title:       r.Title,
		Price:       r.Price,
		Currency:    r.Currency,
		Location:    r.Location,
		Region:      r.Region,
		Type:        r.Type,
		Rooms:       r.Rooms,
		Area:        r.Area,
		Description: r.Description,
		Images:      r.Images,
		Features:    r.Features,
	}
}

// UploadRequest: POST /api/properties/uploads
type UploadRequest struct {
	ContentType string `json:"contentType"`
}

func (r *UploadRequest) Validate() error {
	r.ContentType = strings.ToLower(strings.TrimSpace(r.ContentType))
	if !strings.HasPrefix(r.ContentType, "image/") {
		return validation.Errors{"contentType": "must be an image/* type"}
	}
	return nil
}

func checkTitle(errs validation.Errors, title string) {
	switch n := utf8.RuneCountInString(title); {
	case n == 0:
		errs.Add("title", "is required")
	case n > maxTitleLength:
		errs.Add("title", "must be at most 200 characters")
	}
}

func checkLists(errs validation.Errors, images, features []string) {
	if len(images) > maxImages {
		errs.Add("images", "too many images")
	}
	if len(features) > maxFeatureCount {
		errs.Add("features", "too many features")
	}
}

// cleanList recorta espacios y descarta entradas vacías.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
