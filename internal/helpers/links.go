package helpers

import "fmt"

// RepoLink builds a browser link to a repository. Providers use different
// formats for branch links, only github.com gets one.
func RepoLink(provider, repo, branch string, https bool) string {
	scheme := "http"
	if https {
		scheme = "https"
	}

	link := fmt.Sprintf("%s://%s/%s", scheme, provider, repo)

	if provider == "github.com" {
		link = fmt.Sprintf("%s/tree/%s", link, branch)
	}

	return link
}
