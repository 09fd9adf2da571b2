package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved paths under the fieldlog home directory
type Paths struct {
	Home    string // .fieldlog directory
	Reports string // .fieldlog/reports

	// Key files
	History  string // .fieldlog/history.json
	State    string // .fieldlog/state.json
	Profile  string // .fieldlog/profile.yaml
	QueueDB  string // .fieldlog/sync_queue.db
	Settings string // .fieldlog/setting.json
}

// ResolvePaths returns all paths based on the FIELDLOG_HOME environment variable
func ResolvePaths() Paths {
	home := os.Getenv("FIELDLOG_HOME")
	if home == "" {
		home = ".fieldlog"
	}

	p := Paths{
		Home:    home,
		Reports: filepath.Join(home, "reports"),
	}

	p.History = filepath.Join(home, "history.json")
	p.State = filepath.Join(home, "state.json")
	p.Profile = filepath.Join(home, "profile.yaml")
	p.QueueDB = filepath.Join(home, "sync_queue.db")
	p.Settings = filepath.Join(home, "setting.json")

	return p
}
