package config

import "strings"

// AdminEmails is a case-insensitive allow-list of administrator email
// addresses. Membership is recomputed at every login, so removing an
// address here demotes the user the next time they sign in.
type AdminEmails map[string]struct{}

type nullValue = struct{}

func NewAdminEmails(emails []string) AdminEmails {
	set := make(AdminEmails, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		set[strings.ToLower(email)] = nullValue{}
	}
	return set
}

func (a AdminEmails) Contains(email string) bool {
	_, ok := a[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (a AdminEmails) String() string {
	var emails []string
	for k := range a {
		emails = append(emails, k)
	}
	return strings.Join(emails, ", ")
}
