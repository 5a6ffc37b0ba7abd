package models

// Requests for signal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,max=32"`
	Period string `query:"period" json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
}

type HistoricalRequest struct {
	Symbol   string `param:"symbol" json:"symbol" validate:"required,max=32"`
	Period   string `query:"period" json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=1h 1d 1wk"`
}

type SymbolInfoRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,max=32"`
}

type BatchSignalRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=50,dive,required,max=32"`
	Period  string   `json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
}

type IndicatorsRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,max=32"`
	Period string `query:"period" json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
	Series bool   `query:"series" json:"series"`
}
