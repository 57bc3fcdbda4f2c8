package model

// ================ Config ================

// AnalysisModelConfig drives the low-temperature model used for technical
// passes: billing investigation, network diagnostics, knowledge answers.
type AnalysisModelConfig struct {
	Model       string  `envconfig:"ANALYSIS_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ANALYSIS_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"ANALYSIS_TEMPERATURE" default:"0.2"`
}

// AdvisoryModelConfig drives the customer-facing model used for rewrite and
// recommendation passes.
type AdvisoryModelConfig struct {
	Model       string  `envconfig:"ADVISORY_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ADVISORY_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"ADVISORY_TEMPERATURE" default:"0.4"`
}

// StoreConfig locates the read-only telecom database.
type StoreConfig struct {
	Path string `envconfig:"TELECOM_DB_PATH" default:"data/telecom.db"`
}

// KnowledgeConfig locates the knowledge-base documents and bounds retrieval.
type KnowledgeConfig struct {
	DocsDir string `envconfig:"KNOWLEDGE_DOCS_DIR" default:"data/documents"`
	TopK    int    `envconfig:"KNOWLEDGE_TOP_K" default:"3"`
}

// PromptConfig feeds operator-specific wording into the prompt templates.
type PromptConfig struct {
	OperatorName string `envconfig:"PROMPT_OPERATOR_NAME" default:"IndiTel"`
	Currency     string `envconfig:"PROMPT_CURRENCY" default:"₹"`
}
