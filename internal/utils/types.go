package utils

// TransferJob is one unit of work for the batch scheduler.
type TransferJob struct {
	ID           string
	JobType      string
	URL          string
	OutputPath   string
	Overwrite    bool
	ProgressFunc func(done, total int64)
}

type BatchEntry struct {
	OutputPath string `yaml:"op"`
	URL        string `yaml:"link"`
	Type       string `yaml:"type"`
	Run        string `yaml:"run"`
}
