package utils

const (
	LogFile          = ".askanna.log"
	TempDirName      = ".askanna-temp"
	ToolUserAgent    = "askanna-cli"
	DefaultTokenType = "Token"
	DefaultAPIURL    = "https://beta-api.askanna.eu/v1/"
	DefaultUIURL     = "https://beta.askanna.eu/"
)
