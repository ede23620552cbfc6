package pubsub

type Publisher interface {
	Publish(data []byte) error
}

// Subscriber hands out a receive channel per listener. The returned func releases it.
type Subscriber interface {
	Subscribe() (<-chan []byte, func())
}

type PubSub interface {
	Publisher
	Subscriber
}
