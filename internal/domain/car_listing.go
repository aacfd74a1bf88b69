package domain

import "time"

// CarStatus indica el estado comercial de un vehículo.
type CarStatus string

const (
	CarStatusNew  CarStatus = "NEW"
	CarStatusUsed CarStatus = "USED"
)

// CarBodyType es la carrocería del vehículo.
type CarBodyType string

const (
	BodySedan     CarBodyType = "SEDAN"
	BodySUV       CarBodyType = "SUV"
	BodyCoupe     CarBodyType = "COUPE"
	BodyHatchback CarBodyType = "HATCHBACK"
	BodyPickup    CarBodyType = "PICKUP"
	BodyMinivan   CarBodyType = "MINIVAN"
	BodyCabriolet CarBodyType = "CABRIOLET"
)

// PriceRange agrupa precios en bandas fijas para el buscador.
type PriceRange string

const (
	PriceLow     PriceRange = "LOW"
	PriceMid     PriceRange = "MID"
	PriceHigh    PriceRange = "HIGH"
	PricePremium PriceRange = "PREMIUM"
)

// CarListing es un aviso publicado en el marketplace.
// Price se mantiene como texto decimal; las comparaciones numéricas
// se hacen en NUMERIC del lado de la base, nunca en float64.
type CarListing struct {
	ID             int64        `json:"id"`
	BodyType       CarBodyType  `json:"body_type"`
	FuelType       string       `json:"fuel_type"`
	Manufacturer   Manufacturer `json:"manufacturer"`
	Model          CarModel     `json:"model"`
	Year           int          `json:"year"`
	EngineCapacity string       `json:"engine_capacity,omitempty"`
	Turbo          bool         `json:"turbo"`
	Mileage        int          `json:"mileage"`
	MileageType    string       `json:"mileage_type"`
	Transmission   string       `json:"transmission"`
	Description    string       `json:"description"`
	Region         string       `json:"region"`
	City           string       `json:"city"`
	Photos         []string     `json:"photos"`
	Video          string       `json:"video,omitempty"`
	Price          string       `json:"price"`
	PhoneNumber    string       `json:"phone_number"`
	CarStatus      CarStatus    `json:"car_status"`
	InStock        bool         `json:"in_stock"`
	IsSold         bool         `json:"is_sold"`
	OwnerID        int64        `json:"owner_id"`
	ViewsCount     int          `json:"views_count"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// CarListingFilters son los criterios opcionales del buscador.
// Un campo en nil no aporta cláusula alguna.
type CarListingFilters struct {
	Year         *int
	PriceRange   *PriceRange
	Model        *string
	Manufacturer *string
	City         *string
	BodyType     *CarBodyType
	CarStatus    *CarStatus
	InStock      *bool
}
