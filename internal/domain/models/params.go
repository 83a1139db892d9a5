package models

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

var paramsValidate = validator.New()

// StageParams is the structured parameter set handed to every analysis
// stage. Its JSON form (stable key order) is what cache keys are derived
// from, so two parameter sets are equal iff their serialization is equal.
type StageParams struct {
	StartDate string `json:"start_date,omitempty" yaml:"start_date"`
	EndDate   string `json:"end_date,omitempty" yaml:"end_date"`

	RSIWindow       int `json:"rsi_window" yaml:"rsi_window" default:"14" validate:"gt=0"`
	MACDFast        int `json:"macd_fast" yaml:"macd_fast" default:"12" validate:"gt=0"`
	MACDSlow        int `json:"macd_slow" yaml:"macd_slow" default:"26" validate:"gt=0"`
	MACDSignal      int `json:"macd_signal" yaml:"macd_signal" default:"9" validate:"gt=0"`
	BollingerWindow int `json:"bollinger_window" yaml:"bollinger_window" default:"20" validate:"gt=0"`
	ATRWindow       int `json:"atr_window" yaml:"atr_window" default:"14" validate:"gt=0"`

	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate" default:"0.0015" validate:"gte=0,lt=1"`
	SlippageRate   float64 `json:"slippage_rate" yaml:"slippage_rate" default:"0.0005" validate:"gte=0,lt=1"`
}

// DefaultStageParams returns a parameter set with all defaults applied.
func DefaultStageParams() StageParams {
	var p StageParams
	_ = defaults.Set(&p)
	return p
}

// Normalize applies defaults to zero-valued fields and validates the set.
func (p *StageParams) Normalize() error {
	if err := defaults.Set(p); err != nil {
		return fmt.Errorf("stage params defaults: %w", err)
	}
	if err := paramsValidate.Struct(p); err != nil {
		return fmt.Errorf("stage params: %w", err)
	}
	return nil
}
