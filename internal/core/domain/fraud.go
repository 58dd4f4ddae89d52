package domain

// FraudAssessment is the result of the deterministic pre-submission risk
// screen. A high level blocks submission entirely; medium is informational.
type FraudAssessment struct {
	Score   int            `json:"score"`
	Level   FraudRiskLevel `json:"level"`
	Factors []string       `json:"factors"`
}
