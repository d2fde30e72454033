// internal/domain/newsletter/repository_port.go
package newsletter

import "context"

// Repository is a persistence port for Subscriber.
//
// Two implementations exist (Firestore and Postgres); the wiring policy picks
// one at boot. Upsert must be idempotent on email so repeated signups leak
// nothing about existing subscribers.
type Repository interface {
	Upsert(ctx context.Context, s *Subscriber) error
	Exists(ctx context.Context, email string) (bool, error)
}
