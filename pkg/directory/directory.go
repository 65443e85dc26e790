// Package directory resolves internal recipient addresses against the
// firm's team directory to enrich recipient display. The directory is a
// best-effort collaborator: when it is absent or failing, composing
// continues with plain email addresses.
package directory

import "context"

// Member is one entry of the team directory.
type Member struct {
	Email      string
	Name       string
	Department string
}

// Directory supplies the team member list.
type Directory interface {
	Members(ctx context.Context) ([]Member, error)
}

// DisplayName resolves an address to "Name (Department)" when the
// directory knows it, and degrades to the bare address on any failure or
// miss.
func DisplayName(ctx context.Context, dir Directory, email string) string {
	if dir == nil {
		return email
	}
	members, err := dir.Members(ctx)
	if err != nil {
		return email
	}
	for _, m := range members {
		if m.Email == email {
			if m.Department != "" {
				return m.Name + " (" + m.Department + ")"
			}
			return m.Name
		}
	}
	return email
}

// StaticDirectory is a fixed in-memory directory, useful for small teams
// and tests.
type StaticDirectory []Member

// Members implements Directory.
func (d StaticDirectory) Members(context.Context) ([]Member, error) {
	return d, nil
}
