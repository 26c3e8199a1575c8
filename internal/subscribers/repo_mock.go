package subscribers

import (
	"context"
	"strings"
	"time"
)

type mockRepo struct {
	Subscribers []Subscriber
	nextID      int
}

func NewMockSubscribersRepo() *mockRepo {
	return &mockRepo{
		Subscribers: make([]Subscriber, 0),
		nextID:      1,
	}
}

func (m *mockRepo) Add(_ context.Context, email string) (*Subscriber, bool, error) {
	for _, subscriber := range m.Subscribers {
		if subscriber.Email == email {
			return nil, false, nil
		}
	}

	subscriber := Subscriber{
		ID:           m.nextID,
		Email:        email,
		SubscribedAt: time.Now(),
	}
	m.nextID++
	m.Subscribers = append(m.Subscribers, subscriber)
	return &subscriber, true, nil
}

func (m *mockRepo) List(_ context.Context, search string, limit, offset int) ([]Subscriber, error) {
	var found []Subscriber
	for _, subscriber := range m.Subscribers {
		if search == "" || strings.Contains(strings.ToLower(subscriber.Email), strings.ToLower(search)) {
			found = append(found, subscriber)
		}
	}

	if offset > 0 {
		if offset >= len(found) {
			return nil, nil
		}
		found = found[offset:]
	}
	if limit > 0 && limit < len(found) {
		found = found[:limit]
	}

	return found, nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.Subscribers), nil
}

func (m *mockRepo) Delete(_ context.Context, id int) error {
	for i, subscriber := range m.Subscribers {
		if subscriber.ID == id {
			m.Subscribers = append(m.Subscribers[:i], m.Subscribers[i+1:]...)
			return nil
		}
	}
	return ErrSubscriberNotFound
}
