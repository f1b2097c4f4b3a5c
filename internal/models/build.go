package models

// BuildInformation is set at link time by the release pipeline.
type BuildInformation struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"buildDate"`
}

// VersionString returns the version, qualified with the short commit
// hash for unreleased "latest" builds.
func (b BuildInformation) VersionString() string {
	if b.Version != "latest" {
		return b.Version
	}
	const shortHashLength = 7
	if len(b.Commit) != shortHashLength {
		return b.Version
	}
	return b.Version + "-" + b.Commit
}
