package ports

// TimeFormData holds the result of the adjust-time form.
type TimeFormData struct {
	Hour      int
	Minute    int
	Second    int
	Confirmed bool
}

// DialogProvider abstracts interactive user dialogs.
// Implementations may use TUI forms or test fakes.
type DialogProvider interface {
	// AdjustTimeForm shows a form to edit the clock time.
	// Pre-filled values come from the input data; the user can modify them.
	// Returns the final form data with Confirmed=true if the user accepted.
	AdjustTimeForm(prefill TimeFormData) (TimeFormData, error)
}
