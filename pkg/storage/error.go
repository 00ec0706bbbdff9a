package storage

// NotFoundError is returned when a chat log doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "chat log not found"
	}

	return "chat log not found: " + e.ID
}
