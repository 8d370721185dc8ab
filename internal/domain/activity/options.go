package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	EntityType   string
	EntityID     string
	ActivityType *ActivityType
	OldestFirst  bool
	Limit        int
	Offset       int
}
