// Package github wraps the GitHub contents API for single-file reads and
// commits against one configured repository.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const defaultAPIURL = "https://api.github.com"

// Options configures a Client.
type Options struct {
	Token string
	Owner string
	Repo  string

	// BaseURL overrides the API endpoint. Empty means api.github.com;
	// tests point it at a local fake server.
	BaseURL string

	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

// Client talks to one repository with one token.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// New returns a client authenticated with a personal access token.
func New(opts Options) *Client {
	var httpClient *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	gh := github.NewClient(httpClient)
	if opts.UserAgent != "" {
		gh.UserAgent = opts.UserAgent
	}
	applyBaseURL(gh, opts.BaseURL)
	return &Client{gh: gh, owner: opts.Owner, repo: opts.Repo}
}

func applyBaseURL(c *github.Client, baseURL string) {
	if baseURL == "" || baseURL == defaultAPIURL {
		return
	}
	u, err := url.Parse(baseURL + "/")
	if err != nil {
		return
	}
	c.BaseURL = u
}

// FileSHA returns the blob SHA of path on ref, or "" if the file does not
// exist there. Any other read failure is an error.
func (c *Client) FileSHA(ctx context.Context, path, ref string) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, path, opts)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %s", path, apiMessage(err))
	}
	if file == nil {
		return "", fmt.Errorf("read %s: path is a directory", path)
	}
	return file.GetSHA(), nil
}

// WriteFile commits content to path on branch and returns the commit SHA.
// An empty sha creates the file; a non-empty sha updates that exact blob,
// so a stale sha fails instead of clobbering a newer write.
func (c *Client) WriteFile(ctx context.Context, path string, content []byte, message, branch, sha string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(branch),
	}
	var res *github.RepositoryContentResponse
	var err error
	if sha == "" {
		res, _, err = c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, path, opts)
	} else {
		opts.SHA = github.String(sha)
		res, _, err = c.gh.Repositories.UpdateFile(ctx, c.owner, c.repo, path, opts)
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %s", path, apiMessage(err))
	}
	return res.Commit.GetSHA(), nil
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}

// apiMessage prefers the message GitHub reported over go-github's verbose
// request/URL error text.
func apiMessage(err error) string {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Message != "" {
		return ghErr.Message
	}
	return err.Error()
}
