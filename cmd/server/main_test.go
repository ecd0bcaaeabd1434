package main

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusLogsDroppedEvents(t *testing.T) {
	var out bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Name: "events", Output: &out, Level: hclog.Warn})

	bus := newEventBus(logger)
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	for i := 0; i < events.DefaultBuffer; i++ {
		bus.Publish(events.ProductEvent{Type: events.ProductUpdated, ProductID: "p1"})
	}
	require.Empty(t, out.String())

	bus.Publish(events.ProductEvent{Type: events.ProductDeleted, ProductID: "p2"})

	assert.Contains(t, out.String(), "event dropped")
	assert.Contains(t, out.String(), "type=product_deleted")
	assert.Contains(t, out.String(), "product=p2")
	assert.Len(t, sub, events.DefaultBuffer)
}
