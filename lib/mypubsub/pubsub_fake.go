package mypubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/MarcGrol/cartcheckout/lib/myevents"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newFakePubSub
	}
}

// fakePubSub delivers messages in-process to push subscribers so the local setup behaves like the real one.
type fakePubSub struct {
	sync.Mutex
	subscriptions map[string][]string
	client        *http.Client
}

func newFakePubSub(c context.Context) (PubSub, func(), error) {
	return NewFakePubSub(), func() {}, nil
}

func NewFakePubSub() *fakePubSub {
	return &fakePubSub{
		subscriptions: map[string][]string{},
		client:        &http.Client{Timeout: 5 * time.Second},
	}
}

func (ps *fakePubSub) Subscribe(c context.Context, topic string, urlToPostTo string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.subscriptions[topic] = append(ps.subscriptions[topic], urlToPostTo)

	return nil
}

func (ps *fakePubSub) CreateTopic(c context.Context, topic string) error {
	return nil
}

func (ps *fakePubSub) Subscribers(topic string) []string {
	ps.Lock()
	defer ps.Unlock()

	return append([]string{}, ps.subscriptions[topic]...)
}

func (ps *fakePubSub) Publish(c context.Context, topic string, data string) error {
	envelope := myevents.EventEnvelope{}
	err := json.Unmarshal([]byte(data), &envelope)
	if err != nil {
		return err
	}
	body, err := myevents.NewPushRequest(topic, envelope)
	if err != nil {
		return err
	}

	for _, url := range ps.Subscribers(topic) {
		go ps.push(url, body)
	}

	return nil
}

func (ps *fakePubSub) push(url string, body []byte) {
	resp, err := ps.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("error pushing to %s: %s", url, err)
		return
	}
	defer resp.Body.Close()

	log.Printf("Pushed to %s: %d", url, resp.StatusCode)
}
