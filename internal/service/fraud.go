package service

import (
	"fmt"

	"scholarpay/config"
	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Fraud factor names recorded on assessments.
const (
	FactorHighAmount      = "high_amount"
	FactorForeignCurrency = "foreign_currency"
	FactorUnusualTime     = "unusual_time"
)

// RuleBasedFraudAssessor implements ports.FraudAssessor with an additive,
// deterministic rule set. All thresholds and weights come from configuration;
// the function carries no state and performs no I/O, so identical input
// always yields an identical assessment.
type RuleBasedFraudAssessor struct {
	highAmount decimal.Decimal
	cfg        config.FraudConfig
}

// NewFraudAssessor builds the assessor from its configuration block.
func NewFraudAssessor(cfg config.FraudConfig) (*RuleBasedFraudAssessor, error) {
	threshold, err := decimal.NewFromString(cfg.HighAmountThreshold)
	if err != nil {
		return nil, fmt.Errorf("fraud config: invalid high_amount_threshold %q: %w", cfg.HighAmountThreshold, err)
	}
	return &RuleBasedFraudAssessor{highAmount: threshold, cfg: cfg}, nil
}

// Assess computes the additive risk score and level for one payment request.
func (a *RuleBasedFraudAssessor) Assess(in ports.FraudInput) domain.FraudAssessment {
	score := 0
	var factors []string

	if in.Amount.GreaterThan(a.highAmount) {
		score += a.cfg.HighAmountWeight
		factors = append(factors, FactorHighAmount)
	}

	if in.SettlementCurrency != "" && in.Currency != in.SettlementCurrency {
		score += a.cfg.ForeignCurrencyWeight
		factors = append(factors, FactorForeignCurrency)
	}

	hour := in.At.UTC().Hour()
	if hour < a.cfg.BusinessHoursStart || hour >= a.cfg.BusinessHoursEnd {
		score += a.cfg.UnusualTimeWeight
		factors = append(factors, FactorUnusualTime)
	}

	for _, signal := range in.Signals {
		weight, ok := a.cfg.SignalWeights[signal]
		if !ok {
			continue
		}
		score += weight
		factors = append(factors, signal)
	}

	return domain.FraudAssessment{
		Score:   score,
		Level:   a.level(score),
		Factors: factors,
	}
}

func (a *RuleBasedFraudAssessor) level(score int) domain.FraudRiskLevel {
	switch {
	case score >= a.cfg.HighThreshold:
		return domain.RiskHigh
	case score >= a.cfg.MediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
