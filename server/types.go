package server

import "github.com/abhi2022git/currency-conversion/storage/types"

type RatesResponse struct {
	Results []*types.ConversionRow `json:"results"`
}

type CurrenciesResponse struct {
	Results []types.Currency `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
