package domain

// GitAccount is a git provider credential managed through the database.
// (domain, username) is unique.
type GitAccount struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Domain   string `json:"domain" bson:"domain"`
	Username string `json:"username" bson:"username"`
	Token    string `json:"token,omitempty" bson:"token"`
	HTTPS    bool   `json:"https" bson:"https"`
}

// RegistryAccount is a container registry credential managed through the
// database. (domain, username) is unique.
type RegistryAccount struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	Domain   string `json:"domain" bson:"domain"`
	Username string `json:"username" bson:"username"`
	Token    string `json:"token,omitempty" bson:"token"`
}
