package domain

// User is the subset of a Komodo user the core needs. Admins have implicit
// access to every resource and never get permission rows.
type User struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Username string `json:"username" bson:"username"`
	Enabled  bool   `json:"enabled" bson:"enabled"`
	Admin    bool   `json:"admin" bson:"admin"`
}
