package domain

// Stage names the pipeline step an entry failed in.
type Stage string

const (
	StageBrand   Stage = "brand"
	StageListing Stage = "listing"
)

type EntryFailure struct {
	Entry NavigationEntry
	Stage Stage
	Err   error
}

// RunSummary reports what a single pipeline run did.
type RunSummary struct {
	RunID    string
	Entries  int // Navigation entries resolved from the selectors
	Resolved int // Entries whose brand listing was located
	Pages    int
	Products int
	Failures []EntryFailure
}
