package model

type CoinTransaction struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	CoinAmount int64  `json:"coin_amount"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type GetMyTransactionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyTransactionsResponse struct {
	Transactions []CoinTransaction `json:"transactions,omitempty"`
}

type GetMyBalanceRequest struct{}

type GetMyBalanceResponse struct {
	Coins int64 `json:"coins"`
}

type GetPendingTransactionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPendingTransactionsResponse struct {
	Transactions []CoinTransaction `json:"transactions,omitempty"`
}

type ReviewTransactionsRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

type ReviewTransactionsResponse struct {
	Reviewed int64 `json:"reviewed"`
}

type AdjustCoinsRequest struct {
	UserID     string `json:"user_id"`
	CoinAmount int64  `json:"coin_amount"`
	Reason     string `json:"reason"`
}

type AdjustCoinsResponse struct{}
