package store

// TopicDocument is one regulatory knowledge-base entry: the explanatory
// text for a topic, optionally scoped to a state.
type TopicDocument struct {
	ID        int32
	Topic     string
	State     string // empty means nationwide
	Content   string
	UpdatedTs int64
}

// FindTopicDocument filters topic documents. Empty fields match anything;
// State matches the given state plus nationwide entries.
type FindTopicDocument struct {
	Topic string
	State string
}
