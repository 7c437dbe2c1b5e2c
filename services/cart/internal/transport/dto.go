package transport

type AddItemRequest struct {
	UserID    uint   `json:"userId"`
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
	Token     string `json:"token"`
}

type UpdateQuantityRequest struct {
	Quantity int    `json:"quantity"`
	Token    string `json:"token"`
}
