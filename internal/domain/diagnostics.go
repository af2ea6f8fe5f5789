package domain

// Severity grades an alert.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Audience is who the alert is written for.
type Audience string

const (
	AudienceUser   Audience = "USER"
	AudienceNotary Audience = "NOTARY"
)

// Category is the legal domain of an alert.
type Category string

const (
	CategoryLegal        Category = "LEGAL"
	CategoryFiscal       Category = "FISCAL"
	CategoryData         Category = "DATA"
	CategoryOptimization Category = "OPTIMIZATION"
)

// Alert is one structured diagnostic.
type Alert struct {
	Severity Severity `json:"severity"`
	Audience Audience `json:"audience"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Details  string   `json:"details,omitempty"`
}

// DecisionKind classifies a trace decision.
type DecisionKind string

const (
	DecisionIncluded    DecisionKind = "INCLUDED"
	DecisionExcluded    DecisionKind = "EXCLUDED"
	DecisionInfo        DecisionKind = "INFO"
	DecisionWarning     DecisionKind = "WARNING"
	DecisionCalculation DecisionKind = "CALCULATION"
)

// TraceValue is a named input or output of a pipeline stage.
type TraceValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Decision is a rule applied during a stage.
type Decision struct {
	Kind        DecisionKind `json:"type"`
	Description string       `json:"description"`
	Reason      string       `json:"reason,omitempty"`
}

// TraceStep is the audit record of one pipeline stage.
type TraceStep struct {
	Number      int          `json:"stepNumber"`
	Name        string       `json:"stepName"`
	Description string       `json:"description"`
	Inputs      []TraceValue `json:"inputs,omitempty"`
	Decisions   []Decision   `json:"decisions,omitempty"`
	Outputs     []TraceValue `json:"outputs,omitempty"`
	Summary     string       `json:"resultSummary"`
}
