// Package model holds the domain records shared by every layer.
package model

// Bank is an account with a trust score and a transaction fee.
// AccountNumber is the unique key within a data source.
type Bank struct {
	AccountNumber  string  `json:"accountNumber"`
	Trust          float64 `json:"trust"`
	TransactionFee int     `json:"transactionFee"`
}
