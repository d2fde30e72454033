// internal/domain/newsletter/entity.go
package newsletter

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidEmail = errors.New("newsletter: invalid email")
)

// Shape check only; deliverability is the mail provider's problem.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Subscriber is a newsletter signup.
// - docId = lowercased email (Firestore) / PK (Postgres)
type Subscriber struct {
	Email        string    `json:"email" firestore:"email"`
	Source       string    `json:"source,omitempty" firestore:"source,omitempty"`
	SubscribedAt time.Time `json:"subscribedAt" firestore:"subscribedAt"`
}

// New validates the email shape and creates a subscriber.
func New(email, source string, now time.Time) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRe.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	return &Subscriber{
		Email:        email,
		Source:       strings.TrimSpace(source),
		SubscribedAt: now,
	}, nil
}
