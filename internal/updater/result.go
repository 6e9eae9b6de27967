package updater

import "fmt"

// RowError is a write that failed for one row.
type RowError struct {
	ID  string
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %s: %v", e.ID, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

type Result struct {
	Table  string
	DryRun bool
	// Total is the number of rows fetched.
	Total int
	// Updated counts rows written (or that would be written in a dry run).
	Updated int
	// Unchanged counts rows whose value the rule left as is.
	Unchanged int
	Errors    []RowError
}

func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *Result) String() string {
	if r.Total == 0 {
		return "No project images found in the database."
	}
	if r.DryRun {
		return fmt.Sprintf("Dry run complete. %d records would be updated.", r.Updated)
	}
	return fmt.Sprintf("Update complete. %d records were updated.", r.Updated)
}
