package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan BalanceChangeEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		defer wg.Done()
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			select {
			case eventReceived <- balanceEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected BalanceChangeEvent, got %T", event)
		}
	})

	testEvent := BalanceChangeEvent{
		DiscordID:    123456,
		Username:     "gambler",
		OldBalance:   1000,
		NewBalance:   1500,
		ChangeAmount: 500,
		Reason:       ReasonSettlement,
	}

	// Publish event to transactional bus (simulating service layer)
	transactionalBus.Publish(testEvent)

	// Flush events (simulating successful transaction commit)
	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	wg.Wait()

	select {
	case receivedEvent := <-eventReceived:
		assert.Equal(t, testEvent, receivedEvent)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestMultipleEventsDelivery tests delivering multiple events in sequence
func TestMultipleEventsDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventsReceived := make(chan BalanceChangeEvent, 3)
	var wg sync.WaitGroup
	wg.Add(3)

	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		defer wg.Done()
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			eventsReceived <- balanceEvent
		}
	})

	published := []BalanceChangeEvent{
		{DiscordID: 1, OldBalance: 1000, NewBalance: 1100, ChangeAmount: 100, Reason: ReasonSettlement},
		{DiscordID: 2, OldBalance: 2000, NewBalance: 2200, ChangeAmount: 200, Reason: ReasonSettlement},
		{DiscordID: 3, OldBalance: 3000, NewBalance: 3300, ChangeAmount: 300, Reason: ReasonGrant},
	}

	for _, event := range published {
		transactionalBus.Publish(event)
	}

	ctx := context.Background()
	err := transactionalBus.Flush(ctx)
	assert.NoError(t, err)

	wg.Wait()

	receivedEvents := make([]BalanceChangeEvent, 0, 3)
	for i := 0; i < 3; i++ {
		select {
		case event := <-eventsReceived:
			receivedEvents = append(receivedEvents, event)
		case <-time.After(2 * time.Second):
			t.Fatalf("Only received %d out of 3 events", len(receivedEvents))
		}
	}

	assert.Len(t, receivedEvents, 3)

	// Order may vary because handlers run on their own goroutines
	discordIDs := make(map[int64]bool)
	for _, received := range receivedEvents {
		discordIDs[received.DiscordID] = true
	}

	assert.True(t, discordIDs[1])
	assert.True(t, discordIDs[2])
	assert.True(t, discordIDs[3])
}

// TestTransactionalBusDiscard tests that discarded events are not delivered
func TestTransactionalBusDiscard(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan bool, 1)

	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		eventReceived <- true
	})

	transactionalBus.Publish(BalanceChangeEvent{
		DiscordID:    123456,
		OldBalance:   1000,
		NewBalance:   1500,
		ChangeAmount: 500,
		Reason:       ReasonSettlement,
	})

	// Discard instead of flush (simulating transaction rollback)
	transactionalBus.Discard()

	select {
	case <-eventReceived:
		t.Fatal("Event was received despite being discarded")
	case <-time.After(100 * time.Millisecond):
		// Expected - no event should be received
	}
}

// TestUserCreatedEventDelivery covers the second event type end to end
func TestUserCreatedEventDelivery(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan UserCreatedEvent, 1)

	mainBus.Subscribe(EventTypeUserCreated, func(ctx context.Context, event Event) {
		if created, ok := event.(UserCreatedEvent); ok {
			eventReceived <- created
		}
	})

	testEvent := UserCreatedEvent{DiscordID: 7, Username: "newcomer", InitialBalance: 100000}
	transactionalBus.Publish(testEvent)
	assert.NoError(t, transactionalBus.Flush(context.Background()))

	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent, received)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}
