package mocknode

import (
	"context"

	"github.com/hugolhafner/go-pushgraph/message"
	"github.com/hugolhafner/go-pushgraph/node"
	"github.com/stretchr/testify/mock"
)

var _ node.Consumer = (*MockConsumer)(nil)

// MockConsumer is a testify mock of node.Consumer.
type MockConsumer struct {
	mock.Mock
	name string
}

func NewMockConsumer(name string) *MockConsumer {
	return &MockConsumer{name: name}
}

func (c *MockConsumer) Name() string {
	return c.name
}

func (c *MockConsumer) Type() node.NodeType {
	return node.NodeTypeSink
}

func (c *MockConsumer) Send(ctx context.Context, msg message.Message) error {
	args := c.Mock.Called(ctx, msg)
	return args.Error(0)
}
