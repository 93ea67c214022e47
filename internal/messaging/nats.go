package messaging

import (
	"encoding/json"
	"fmt"

	"partyplan/internal/logger"

	"github.com/google/uuid"
	"github.com/nats-io/stan.go"
)

type NATSClient struct {
	conn stan.Conn
}

type Config struct {
	URL       string
	ClusterID string
	ClientID  string
}

// NewNATSClient connects to NATS Streaming. With no URL configured it returns
// a client whose Publish is a no-op.
func NewNATSClient(cfg Config) (*NATSClient, error) {
	if cfg.URL == "" {
		logger.Get().Info().Msg("NATS_URL not set, domain events are disabled")
		return &NATSClient{}, nil
	}

	// Unique client ID so overlapping runs do not kick each other off the cluster
	uniqueClientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.New().String()[:8])

	conn, err := stan.Connect(cfg.ClusterID, uniqueClientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS Streaming: %w", err)
	}

	logger.Get().Info().
		Str("url", cfg.URL).
		Str("cluster", cfg.ClusterID).
		Str("client", uniqueClientID).
		Msg("Connected to NATS Streaming")

	return &NATSClient{conn: conn}, nil
}

func (nc *NATSClient) Publish(subject string, data any) error {
	if nc == nil || nc.conn == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := nc.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}

	logger.Get().Debug().Str("subject", subject).Msg("Published message")
	return nil
}

func (nc *NATSClient) Close() error {
	if nc != nil && nc.conn != nil {
		return nc.conn.Close()
	}
	return nil
}
