package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-api/internal/models"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *mockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func TestPublishMessage_Unit(t *testing.T) {
	t.Run("marshals body as json", func(t *testing.T) {
		ch := new(mockChannel)
		ch.On("Publish", "ex", "key", false, false, mock.MatchedBy(func(p amqp.Publishing) bool {
			return p.ContentType == "application/json" &&
				p.DeliveryMode == amqp.Persistent &&
				string(p.Body) == `{"id":1}`
		})).Return(nil).Once()

		err := PublishMessage(ch, "ex", "key", map[string]int{"id": 1})
		require.NoError(t, err)
		ch.AssertExpectations(t)
	})

	t.Run("marshal error", func(t *testing.T) {
		ch := new(mockChannel)
		badMsg := struct {
			Ch chan int `json:"ch"`
		}{Ch: make(chan int)}

		err := PublishMessage(ch, "ex", "key", badMsg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.PublishMessage")
		ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("publish error", func(t *testing.T) {
		ch := new(mockChannel)
		ch.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).
			Return(amqp.ErrClosed).Once()

		err := PublishMessage(ch, "ex", "key", "msg")
		assert.ErrorIs(t, err, amqp.ErrClosed)
	})
}

func TestNewPublisher_DeclaresExchange(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", "auth.events", amqp.ExchangeTopic, true, false, false, false, amqp.Table(nil)).
		Return(nil).Once()

	p, err := NewPublisher(ch, "auth.events")
	require.NoError(t, err)
	require.NotNil(t, p)
	ch.AssertExpectations(t)
}

func TestNewPublisher_DeclareError(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(errors.New("access refused")).Once()

	p, err := NewPublisher(ch, "auth.events")
	assert.Nil(t, p)
	assert.ErrorContains(t, err, "access refused")
}

func TestPublisher_PublishUserRegistered(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)

	event := models.UserRegisteredEvent{
		UserUID:      "6f1c3b7e-2f7a-4c4e-9d1a-0b8f2d8a9c11",
		Email:        "john@example.com",
		FirstName:    "John",
		LastName:     "Doe",
		RegisteredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	var published amqp.Publishing
	ch.On("Publish", "auth.events", RoutingKeyUserRegistered, false, false, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
		Return(nil).Once()
	ch.On("Close").Return(nil).Once()

	p, err := NewPublisher(ch, "auth.events")
	require.NoError(t, err)

	require.NoError(t, p.PublishUserRegistered(context.Background(), event))

	var got models.UserRegisteredEvent
	require.NoError(t, json.Unmarshal(published.Body, &got))
	assert.Equal(t, event, got)
	assert.NotContains(t, string(published.Body), "password")

	require.NoError(t, p.Close())
	ch.AssertExpectations(t)
}

func TestPublisher_CanceledContext(t *testing.T) {
	ch := new(mockChannel)
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)

	p, err := NewPublisher(ch, "auth.events")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.PublishUserRegistered(ctx, models.UserRegisteredEvent{})
	assert.ErrorIs(t, err, context.Canceled)
	ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
