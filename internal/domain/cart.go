package domain

type CartItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    float64  `json:"price"`
	Image    string   `json:"image"`
	Category string   `json:"category"`
	Rating   *float64 `json:"rating,omitempty"`
	Quantity int      `json:"quantity"`
}
