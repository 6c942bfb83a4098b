package domain

import "github.com/moghtech/komodo-core/internal/helpers"

// GitSource is the set of git fields shared by resources that clone a repo.
type GitSource struct {
	GitProvider string `json:"git_provider" bson:"git_provider"`
	GitHTTPS    bool   `json:"git_https" bson:"git_https"`
	GitAccount  string `json:"git_account,omitempty" bson:"git_account,omitempty"`
	Repo        string `json:"repo,omitempty" bson:"repo,omitempty"`
	Branch      string `json:"branch,omitempty" bson:"branch,omitempty"`
}

type RepoConfig struct {
	GitSource `bson:",inline"`
	ServerID  string `json:"server_id,omitempty" bson:"server_id,omitempty"`
	Path      string `json:"path,omitempty" bson:"path,omitempty"`
}

type Repo struct {
	ID     string     `json:"id" bson:"_id,omitempty"`
	Name   string     `json:"name" bson:"name"`
	Config RepoConfig `json:"config" bson:"config"`
}

func (r *Repo) ResourceTarget() ResourceTarget {
	return RepoTarget(r.ID)
}

type BuildConfig struct {
	GitSource      `bson:",inline"`
	LinkedRepo     string `json:"linked_repo,omitempty" bson:"linked_repo,omitempty"`
	ImageRegistry  string `json:"image_registry,omitempty" bson:"image_registry,omitempty"`
	RegistryDomain string `json:"registry_domain,omitempty" bson:"registry_domain,omitempty"`
}

type Build struct {
	ID     string      `json:"id" bson:"_id,omitempty"`
	Name   string      `json:"name" bson:"name"`
	Config BuildConfig `json:"config" bson:"config"`
}

func (b *Build) ResourceTarget() ResourceTarget {
	return BuildTarget(b.ID)
}

type StackConfig struct {
	GitSource  `bson:",inline"`
	ServerID   string `json:"server_id,omitempty" bson:"server_id,omitempty"`
	LinkedRepo string `json:"linked_repo,omitempty" bson:"linked_repo,omitempty"`
}

type Stack struct {
	ID     string      `json:"id" bson:"_id,omitempty"`
	Name   string      `json:"name" bson:"name"`
	Config StackConfig `json:"config" bson:"config"`
}

func (s *Stack) ResourceTarget() ResourceTarget {
	return StackTarget(s.ID)
}

// RepoLink is the browser link to the configured repository.
func (s GitSource) RepoLink() string {
	return helpers.RepoLink(s.GitProvider, s.Repo, s.Branch, s.GitHTTPS)
}
