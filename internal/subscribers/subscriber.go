package subscribers

import (
	"context"
	"time"
)

type Subscriber struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

type Api interface {
	Add(ctx context.Context, email string) (subscriber *Subscriber, inserted bool, err error)
	List(ctx context.Context, search string, limit, offset int) ([]Subscriber, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int) error
}
