package pagination

import (
	"context"
	"net/url"
	"strconv"
)

const (
	defaultLimit = 10
	defaultPage  = 1
)

// Request son los parámetros de paginado de un request de listado.
// Valores ausentes o no positivos caen en los defaults.
type Request struct {
	Limit int
	Page  int
}

// Meta describe la ventana devuelta y el total del conjunto.
type Meta struct {
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
}

// Links contiene URLs absolutas de navegación para el mismo query.
type Links struct {
	First    string `json:"first"`
	Last     string `json:"last"`
	Current  string `json:"current"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

// Page es el sobre de resultados paginados.
type Page[T any] struct {
	Data  []T   `json:"data"`
	Meta  Meta  `json:"meta"`
	Links Links `json:"links"`
}

// Queryable expone count y ventana sobre un conjunto ya filtrado.
// Ambas llamadas deben reflejar el mismo conjunto de predicados.
type Queryable[T any] interface {
	Count(ctx context.Context) (int64, error)
	Window(ctx context.Context, limit, offset int) ([]T, error)
}

// Paginate ejecuta count + ventana y arma el sobre con metadata y links.
// next y previous quedan clavados en los bordes, nunca en 0 ni fuera de rango.
func Paginate[T any](ctx context.Context, req Request, q Queryable[T], requestURL *url.URL) (Page[T], error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	page := req.Page
	if page <= 0 {
		page = defaultPage
	}
	offset := (page - 1) * limit

	totalItems, err := q.Count(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	data, err := q.Window(ctx, limit, offset)
	if err != nil {
		return Page[T]{}, err
	}

	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	nextPage := page
	if page < totalPages {
		nextPage = page + 1
	}
	previousPage := 1
	if page > 1 {
		previousPage = page - 1
	}

	buildLink := func(pageNum int) string {
		if requestURL == nil {
			return ""
		}
		u := *requestURL
		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		q.Set("page", strconv.Itoa(pageNum))
		u.RawQuery = q.Encode()
		return u.String()
	}

	return Page[T]{
		Data: data,
		Meta: Meta{
			ItemsPerPage: limit,
			TotalItems:   totalItems,
			CurrentPage:  page,
			TotalPages:   totalPages,
		},
		Links: Links{
			First:    buildLink(1),
			Last:     buildLink(totalPages),
			Current:  buildLink(page),
			Next:     buildLink(nextPage),
			Previous: buildLink(previousPage),
		},
	}, nil
}
