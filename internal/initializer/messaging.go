package initializer

import (
	"betting-service/config"
	"betting-service/infra/kafka"
)

func InitMessaging(appConfig config.Config) *kafka.Publisher {
	return kafka.NewPublisher(kafka.Config{
		Brokers: appConfig.Kafka.Brokers,
		Topic:   appConfig.Kafka.Topic,
	})
}
