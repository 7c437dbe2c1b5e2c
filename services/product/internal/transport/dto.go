package transport

type CreateProductRequest struct {
	UserID      uint    `json:"userId"`
	Token       string  `json:"token"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Photo       []byte  `json:"photo,omitempty"`
}

type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Photo       []byte  `json:"photo,omitempty"`
}

// TokenRequest is the body of the cross-service bulk delete: the user
// service forwards the caller's token this way.
type TokenRequest struct {
	Token string `json:"token"`
}
