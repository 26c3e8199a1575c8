package contact

import "context"

type mockMailer struct {
	SentMessages []Message
	SendErr      error
}

func NewMockMailer() *mockMailer {
	return &mockMailer{
		SentMessages: make([]Message, 0),
	}
}

func (m *mockMailer) Send(_ context.Context, message Message) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentMessages = append(m.SentMessages, message)
	return nil
}
