package config

import (
	"fmt"
	"net"
	"strconv"
	"tarkovapi/utils"

	"github.com/segmentio/kafka-go"
)

func CreateIngestionTopic(broker string, topic string) error {
	if broker == "" {
		return fmt.Errorf("KAFKA_BROKER environment variable not set")
	}
	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return err
	}
	defer utils.Closer(conn)()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer utils.Closer(controllerConn)()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
		ConfigEntries: []kafka.ConfigEntry{
			// 30 days retention
			{
				ConfigName:  "retention.ms",
				ConfigValue: "2592000000",
			},
		},
	})
}

// GetIngestionWriter returns nil when no broker is configured.
func GetIngestionWriter(cfg *Config) (*kafka.Writer, error) {
	if cfg.KafkaBroker == "" {
		return nil, nil
	}
	if err := CreateIngestionTopic(cfg.KafkaBroker, cfg.KafkaIngestionTopic); err != nil {
		return nil, err
	}
	return &kafka.Writer{
		Addr:        kafka.TCP(cfg.KafkaBroker),
		Topic:       cfg.KafkaIngestionTopic,
		Balancer:    &kafka.LeastBytes{},
		Compression: kafka.Zstd,
	}, nil
}
