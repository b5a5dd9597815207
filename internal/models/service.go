package models

// Service represents a bookable rental service in the catalog
type Service struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"` // Price in cents
	Duration string   `json:"duration"`
	Features []string `json:"features,omitempty"`
}

// DefaultServices returns the catalog loaded at startup.
// Prices are per unit in cents.
func DefaultServices() []Service {
	return []Service{
		{
			ID:       "crystal_kayak",
			Name:     "Crystal-Clear Kayak Rental (2 person)",
			Price:    6000,
			Duration: "hourly",
			Features: []string{"Transparent hull", "Seats 2", "Life jackets included", "Paddles included"},
		},
		{
			ID:       "canoe",
			Name:     "Canoe Rental (2+ people)",
			Price:    7500,
			Duration: "hourly",
			Features: []string{"Seats 2-3", "Life jackets included", "Paddles included"},
		},
		{
			ID:       "paddle_board",
			Name:     "Paddle Board Rental",
			Price:    7500,
			Duration: "hourly",
			Features: []string{"Adjustable paddle", "Leash included", "Life jacket included"},
		},
		{
			ID:       "luxury_cabana_hourly",
			Name:     "Luxury Floating Cabana (per person per hour)",
			Price:    5000,
			Duration: "hourly",
			Features: []string{"Shaded canopy", "Cooler with ice", "Bluetooth speaker"},
		},
		{
			ID:       "luxury_cabana_3hr",
			Name:     "Luxury Floating Cabana (3 hours)",
			Price:    10000,
			Duration: "3 hours",
			Features: []string{"Shaded canopy", "Cooler with ice", "Bluetooth speaker"},
		},
		{
			ID:       "luxury_cabana_4hr",
			Name:     "Luxury Floating Cabana (4 hours, 6 person max)",
			Price:    40000,
			Duration: "4 hours",
			Features: []string{"Shaded canopy", "Cooler with ice", "Bluetooth speaker", "Up to 6 guests"},
		},
	}
}
