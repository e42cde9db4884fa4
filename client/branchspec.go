package client

import (
	"fmt"
	"strings"
)

// BranchSpec identifies a specific branch or commit within a database,
// optionally scoped to an organization and repo, matching spec.md §6's
// string form exactly: "<org>/<db>/<repo>/branch/<branch>" or
// "<org>/<db>/<repo>/commit/<commit>".
type BranchSpec struct {
	Org    string
	DB     string
	Repo   string
	Branch string // mutually exclusive with RefCommit
	RefCommit string
}

// DefaultBranchSpec targets a database's main branch with the conventional
// "local" repo name and no org scoping.
func DefaultBranchSpec(db string) BranchSpec {
	return BranchSpec{DB: db, Repo: "local", Branch: "main"}
}

// String renders the canonical path form of the spec.
func (b BranchSpec) String() string {
	org := b.Org
	if org == "" {
		org = "admin"
	}
	repo := b.Repo
	if repo == "" {
		repo = "local"
	}
	if b.RefCommit != "" {
		return fmt.Sprintf("%s/%s/%s/commit/%s", org, b.DB, repo, b.RefCommit)
	}
	branch := b.Branch
	if branch == "" {
		branch = "main"
	}
	return fmt.Sprintf("%s/%s/%s/branch/%s", org, b.DB, repo, branch)
}

// ParseBranchSpec parses the canonical path form back into a BranchSpec.
func ParseBranchSpec(s string) (BranchSpec, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 5 {
		return BranchSpec{}, fmt.Errorf("client: malformed branch spec %q", s)
	}
	spec := BranchSpec{Org: parts[0], DB: parts[1], Repo: parts[2]}
	switch parts[3] {
	case "branch":
		spec.Branch = parts[4]
	case "commit":
		spec.RefCommit = parts[4]
	default:
		return BranchSpec{}, fmt.Errorf("client: malformed branch spec %q: expected branch/ or commit/, got %q", s, parts[3])
	}
	return spec, nil
}

// AtCommit returns a copy of b pinned to the given commit instead of a branch.
func (b BranchSpec) AtCommit(commit string) BranchSpec {
	b.RefCommit = commit
	b.Branch = ""
	return b
}
