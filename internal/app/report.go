package service

import "time"

// TableReport summarises one written table.
type TableReport struct {
	Name       string
	Rows       int
	Files      int
	Duplicates int
}

// Report summarises a pipeline run.
type Report struct {
	RunID     string
	Tables    []TableReport
	Songs     int // song records read
	Events    int // events read, before filtering
	Plays     int // NextSong events
	Matched   int
	Unmatched int
	Ambiguous int
	Elapsed   time.Duration
}

// Table returns the report of the named table.
func (r Report) Table(name string) (TableReport, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableReport{}, false
}
