package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "soliscan"

	// ToolURI points at the project home, used in SARIF output
	ToolURI = "https://github.com/soliscan/soliscan"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "SOLISCAN"
)

// Source file constants
const (
	// SolidityExtension is the file extension picked up by default
	SolidityExtension = ".sol"
)

// Output format constants
const (
	OutputFormatText  = "text"
	OutputFormatJSON  = "json"
	OutputFormatSARIF = "sarif"
)

// Rule category constants
const (
	CategorySecurity     = "security"
	CategoryBestPractice = "best-practice"
	CategoryStyle        = "style"
	CategoryGas          = "gas"
)
