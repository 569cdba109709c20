package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/vaibhavisno-one/movierating/ratings/pkg/model"
)

func main() {
	addr := flag.String("addr", "localhost:9092", "Kafka broker address")
	topic := flag.String("topic", "ratings", "Kafka topic to produce to")
	fileName := flag.String("file", "ratingsdata.json", "Rating events file")
	flag.Parse()

	fmt.Println("Creating a kafka producer")

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": *addr,
	})
	if err != nil {
		log.Fatalf("cannot create producer: %v", err)
	}
	defer producer.Close()

	go func() {
		for e := range producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					log.Printf("delivery failed: %v", ev.TopicPartition)
				}
			}
		}
	}()

	fmt.Println("Reading rating events from file " + *fileName)

	ratingEvents, err := readRatingEvents(*fileName)
	if err != nil {
		log.Fatalf("cannot read events: %v", err)
	}

	if err := produceRatingEvents(*topic, producer, ratingEvents); err != nil {
		log.Fatalf("cannot produce events: %v", err)
	}

	remaining := producer.Flush(10_000) // 10 s
	if remaining != 0 {
		log.Fatalf("still %d messages not delivered", remaining)
	}
	fmt.Println("all events produced")
}

func readRatingEvents(fileName string) ([]model.RatingEvent, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []model.RatingEvent
	if err := json.NewDecoder(f).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

func produceRatingEvents(topic string, producer *kafka.Producer, events []model.RatingEvent) error {
	for _, re := range events {
		payload, err := json.Marshal(re)
		if err != nil {
			return err
		}
		if err := producer.Produce(&kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Value:          payload,
		}, nil); err != nil {
			return err
		}
	}
	return nil
}
