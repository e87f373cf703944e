package engine

import (
	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/message"
	"github.com/kode4food/caravan/topic"

	"github.com/kode4food/arran/pkg/api"
)

// Hub fans engine events out to subscribers such as the websocket layer
type Hub struct {
	topic topic.Topic[*api.Event]
	prod  topic.Producer[*api.Event]
}

// NewHub creates an event hub with no subscribers
func NewHub() *Hub {
	t := caravan.NewTopic[*api.Event]()
	return &Hub{
		topic: t,
		prod:  t.NewProducer(),
	}
}

// Publish broadcasts an event to all subscribers
func (h *Hub) Publish(ev *api.Event) {
	message.Send(h.prod, ev)
}

// NewConsumer subscribes to the event stream. The caller closes the
// consumer when done
func (h *Hub) NewConsumer() topic.Consumer[*api.Event] {
	return h.topic.NewConsumer()
}

// Close stops the hub's producer
func (h *Hub) Close() {
	h.prod.Close()
}
